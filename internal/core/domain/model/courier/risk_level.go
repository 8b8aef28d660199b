package courier

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

// RiskLevel is the discrete fraud-risk classification of a courier.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Validate rejects values outside the four known levels.
func (l RiskLevel) Validate() error {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("risk level", fmt.Errorf("%q is not a valid risk level", string(l)))
	}
}

// IsElevated reports whether the level calls for manual review.
func (l RiskLevel) IsElevated() bool {
	return l == RiskHigh || l == RiskCritical
}
