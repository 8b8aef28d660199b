package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
)

// RiskReviewRepository stores risk reports that require a manual review.
type RiskReviewRepository interface {
	// Add records a report. Reports are append-only.
	Add(ctx context.Context, report services.RiskReport) error

	// ListByCourier returns the recorded reports of a courier, newest first.
	ListByCourier(ctx context.Context, courierID kernel.UUID) ([]services.RiskReport, error)
}
