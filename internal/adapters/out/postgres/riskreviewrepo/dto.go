// Package riskreviewrepo stores risk reports that need manual review.
package riskreviewrepo

import (
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RiskReviewDTO is one recorded report. FlaggedFactors lists the factors
// with a non-zero score so reviewers can filter with array operators.
type RiskReviewDTO struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CourierID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	RiskScore          float64        `gorm:"type:numeric(5,2);not null"`
	RiskLevel          string         `gorm:"type:varchar(16);not null;index"`
	FlaggedFactors     pq.StringArray `gorm:"type:text[]"`
	RecommendedActions pq.StringArray `gorm:"type:text[]"`
	Factors            []FactorDTO    `gorm:"type:jsonb;serializer:json"`
	AnalyzedAt         time.Time      `gorm:"not null;index"`
}

// TableName specifies the database table name for risk reviews.
func (RiskReviewDTO) TableName() string {
	return "risk_reviews"
}

// FactorDTO is the JSON form of one factor result.
type FactorDTO struct {
	Factor  string             `json:"factor"`
	Score   float64            `json:"score"`
	Details string             `json:"details"`
	Metrics map[string]float64 `json:"metrics"`
}

func fromDomain(report services.RiskReport) RiskReviewDTO {
	factors := make([]FactorDTO, 0, len(report.Factors))
	flagged := make(pq.StringArray, 0, len(report.Factors))
	for _, f := range report.Factors {
		factors = append(factors, FactorDTO{
			Factor:  string(f.Factor),
			Score:   f.Score,
			Details: f.Details,
			Metrics: f.Metrics,
		})
		if f.Score > 0 {
			flagged = append(flagged, string(f.Factor))
		}
	}

	return RiskReviewDTO{
		ID:                 uuid.New(),
		CourierID:          report.CourierID.Bytes(),
		RiskScore:          report.RiskScore,
		RiskLevel:          string(report.RiskLevel),
		FlaggedFactors:     flagged,
		RecommendedActions: pq.StringArray(report.RecommendedActions),
		Factors:            factors,
		AnalyzedAt:         report.AnalyzedAt,
	}
}

// toDomain rebuilds the report. Only elevated reports are stored, so every
// restored report requires manual review.
func toDomain(dto RiskReviewDTO) (services.RiskReport, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return services.RiskReport{}, err
	}

	level := courier.RiskLevel(dto.RiskLevel)
	if err = level.Validate(); err != nil {
		return services.RiskReport{}, err
	}

	factors := make([]services.RiskFactorResult, 0, len(dto.Factors))
	for _, f := range dto.Factors {
		factors = append(factors, services.RiskFactorResult{
			Factor:  services.RiskFactor(f.Factor),
			Score:   f.Score,
			Details: f.Details,
			Metrics: f.Metrics,
		})
	}

	return services.RiskReport{
		CourierID:            courierID,
		RiskScore:            dto.RiskScore,
		RiskLevel:            level,
		Factors:              factors,
		RequiresManualReview: level.IsElevated(),
		RecommendedActions:   []string(dto.RecommendedActions),
		AnalyzedAt:           dto.AnalyzedAt,
	}, nil
}
