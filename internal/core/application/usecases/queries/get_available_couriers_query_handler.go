package queries

import (
	"context"
	"database/sql"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableCouriersQueryHandler reads available couriers with plain SQL.
type GetAvailableCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableCouriersQueryHandler creates a handler over a GORM connection.
func NewGetAvailableCouriersQueryHandler(db *gorm.DB) GetAvailableCouriersQueryHandler {
	return GetAvailableCouriersQueryHandler{db: db}
}

// Handle returns the available couriers sorted by city, then name.
func (h GetAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableCouriersQuery,
) ([]GetAvailableCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAvailableCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			base_city,
			location_lat,
			location_lng,
			ranking_score,
			risk_level
		FROM couriers
		WHERE available AND (? = '' OR base_city = ?)
		ORDER BY base_city, name, id
	`, query.City(), query.City()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableCouriersQueryResponse
		var id uuid.UUID
		var lat, lng sql.NullFloat64
		var riskLevel string

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.BaseCity,
			&lat,
			&lng,
			&resp.RankingScore,
			&riskLevel,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = courierID

		if lat.Valid && lng.Valid {
			location, locErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
			if locErr != nil {
				return nil, locErr
			}
			resp.Location = &location
		}

		resp.RiskLevel = courier.RiskLevel(riskLevel)
		couriers = append(couriers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
