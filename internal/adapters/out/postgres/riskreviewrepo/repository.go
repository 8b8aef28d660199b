package riskreviewrepo

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"gorm.io/gorm"
)

// GormRiskReviewRepository implements RiskReviewRepository using GORM.
type GormRiskReviewRepository struct {
	db *gorm.DB
}

// NewGormRiskReviewRepository creates a new GORM risk review repository.
func NewGormRiskReviewRepository(db *gorm.DB) *GormRiskReviewRepository {
	return &GormRiskReviewRepository{db: db}
}

// Add appends a report.
func (r *GormRiskReviewRepository) Add(ctx context.Context, report services.RiskReport) error {
	if err := report.CourierID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(report)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByCourier returns the reports of a courier, newest first.
func (r *GormRiskReviewRepository) ListByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]services.RiskReport, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RiskReviewDTO
	if err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Order("analyzed_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	reports := make([]services.RiskReport, 0, len(dtos))
	for _, dto := range dtos {
		report, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
