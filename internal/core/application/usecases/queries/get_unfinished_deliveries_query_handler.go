package queries

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var terminalStatuses = []string{
	delivery.Delivered.String(),
	delivery.Cancelled.String(),
	delivery.ClientNotFound.String(),
}

// GetUnfinishedDeliveriesQueryHandler reads open deliveries with plain SQL.
//
// Example:
//
//	handler := NewGetUnfinishedDeliveriesQueryHandler(db)
//	open, err := handler.Handle(ctx, NewGetUnfinishedDeliveriesQuery(""))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d deliveries in progress\n", len(open))
type GetUnfinishedDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetUnfinishedDeliveriesQueryHandler creates a handler over a GORM connection.
func NewGetUnfinishedDeliveriesQueryHandler(db *gorm.DB) GetUnfinishedDeliveriesQueryHandler {
	return GetUnfinishedDeliveriesQueryHandler{db: db}
}

// Handle returns the unfinished deliveries, oldest first.
func (h GetUnfinishedDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetUnfinishedDeliveriesQuery,
) ([]GetUnfinishedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetUnfinishedDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			pickup_city,
			courier_id,
			priority,
			price_total,
			created_at
		FROM deliveries
		WHERE status NOT IN ? AND (? = '' OR pickup_city = ?)
		ORDER BY created_at, id
	`, terminalStatuses, query.City(), query.City()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnfinishedDeliveriesQueryResponse
		var id uuid.UUID
		var courierID uuid.NullUUID
		var status string
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&status,
			&resp.PickupCity,
			&courierID,
			&resp.Priority,
			&resp.TotalPrice,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		deliveryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = deliveryID

		if courierID.Valid {
			cID, courierErr := kernel.UUIDFromBytes(courierID.UUID[:])
			if courierErr != nil {
				return nil, courierErr
			}
			resp.CourierID = &cID
		}

		parsed, statusErr := delivery.ParseStatus(status)
		if statusErr != nil {
			return nil, statusErr
		}
		resp.Status = parsed
		resp.CreatedAt = createdAt.UTC()

		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
