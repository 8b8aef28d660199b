package services

import (
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
)

// SecurityAssessment combines behavioural risk with identity checks.
type SecurityAssessment struct {
	CourierID                 kernel.UUID
	Risk                      RiskReport
	NeedsIdentityVerification bool
	Consistency               ConsistencyReport
	OverallSecurityScore      float64
	AssessedAt                time.Time
}

// SecurityAssessor scores a courier's overall trustworthiness as
//
//	(100 - risk score) * 0.4 + consistency score * 0.6
type SecurityAssessor struct {
	risk     *RiskAnalyzer
	identity IdentityVerifier
}

func NewSecurityAssessor(risk *RiskAnalyzer, identity IdentityVerifier) *SecurityAssessor {
	return &SecurityAssessor{risk: risk, identity: identity}
}

// Assess runs risk analysis, the verification policy and the name
// consistency check for c at now.
func (s *SecurityAssessor) Assess(c *courier.Courier, now time.Time) (SecurityAssessment, error) {
	report, err := s.risk.Analyze(c, now)
	if err != nil {
		return SecurityAssessment{}, err
	}

	needsVerification, err := s.identity.RequiresVerification(c, now)
	if err != nil {
		return SecurityAssessment{}, err
	}

	consistency, err := s.identity.VerifyConsistency(c, now)
	if err != nil {
		return SecurityAssessment{}, err
	}

	return SecurityAssessment{
		CourierID:                 c.ID(),
		Risk:                      report,
		NeedsIdentityVerification: needsVerification,
		Consistency:               consistency,
		OverallSecurityScore:      round((100-report.RiskScore)*0.4+float64(consistency.ConsistencyScore)*0.6, 2),
		AssessedAt:                now,
	}, nil
}
