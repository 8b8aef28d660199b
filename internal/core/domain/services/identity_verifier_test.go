package services_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityVerifier_RequiresVerification(t *testing.T) {
	verifier := services.NewIdentityVerifier()
	day := 24 * time.Hour

	tests := []struct {
		name string
		opts []courierOption
		want bool
	}{
		{"new account never verified", []courierOption{withCreatedAt(now.Add(-3 * day))}, true},
		{"old account never verified", nil, true},
		{"recently verified low risk", []courierOption{withVerifiedAt(now.Add(-10 * day))}, false},
		{"high risk verified yesterday", []courierOption{withVerifiedAt(now.Add(-day)), withRiskLevel(courier.RiskHigh)}, true},
		{"critical risk verified hours ago", []courierOption{withVerifiedAt(now.Add(-5 * time.Hour)), withRiskLevel(courier.RiskCritical)}, false},
		{"regular cycle expired", []courierOption{withVerifiedAt(now.Add(-31 * day))}, true},
		{"high payout verified a week ago", []courierOption{withVerifiedAt(now.Add(-8 * day)), withWallet(600)}, true},
		{"high payout verified recently", []courierOption{withVerifiedAt(now.Add(-3 * day)), withWallet(600)}, false},
		{"payout at threshold", []courierOption{withVerifiedAt(now.Add(-8 * day)), withWallet(500)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.RequiresVerification(newCourier(t, tt.opts...), now)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentityVerifier_VerifyConsistency(t *testing.T) {
	verifier := services.NewIdentityVerifier()

	t.Run("should accept matching names", func(t *testing.T) {
		c := newCourier(t, withNames(courier.IdentityNames{OAuth: "ANA SOUZA", Document: " ana souza ", BankHolder: "Ana Souza"}))

		report, err := verifier.VerifyConsistency(c, now)

		require.NoError(t, err)
		assert.Equal(t, 100, report.ConsistencyScore)
		assert.Empty(t, report.Inconsistencies)
		assert.False(t, report.RequiresManualReview)
	})

	t.Run("should skip missing names", func(t *testing.T) {
		report, err := verifier.VerifyConsistency(newCourier(t), now)

		require.NoError(t, err)
		assert.Equal(t, 100, report.ConsistencyScore)
	})

	t.Run("should report each mismatch", func(t *testing.T) {
		c := newCourier(t, withNames(courier.IdentityNames{
			OAuth:      "Ana Paula Souza",
			Document:   "Ana Souza",
			BankHolder: "Carlos Lima",
		}))

		report, err := verifier.VerifyConsistency(c, now)

		require.NoError(t, err)
		require.Len(t, report.Inconsistencies, 2)
		assert.Equal(t, services.NameMismatch, report.Inconsistencies[0].Type)
		assert.Equal(t, services.SeverityMedium, report.Inconsistencies[0].Severity)
		assert.InDelta(t, 2.0/3.0, report.Inconsistencies[0].Similarity, 1e-9)
		assert.Equal(t, services.BankNameMismatch, report.Inconsistencies[1].Type)
		assert.Equal(t, services.SeverityHigh, report.Inconsistencies[1].Severity)
		assert.Equal(t, 50, report.ConsistencyScore)
		assert.True(t, report.RequiresManualReview)
	})

	t.Run("document check is stricter", func(t *testing.T) {
		c := newCourier(t, withNames(courier.IdentityNames{Document: "Ana Souza Lima"}))

		report, err := verifier.VerifyConsistency(c, now)

		require.NoError(t, err)
		require.Len(t, report.Inconsistencies, 1)
		assert.Equal(t, services.DocumentMismatch, report.Inconsistencies[0].Type)
		assert.Equal(t, 75, report.ConsistencyScore)
	})
}

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, services.NameSimilarity(" Ana ", "ana"), 1e-9)
	assert.InDelta(t, 0.5, services.NameSimilarity("ana souza", "ana lima souza costa"), 1e-9)
	assert.InDelta(t, 0.0, services.NameSimilarity("ana", "bia"), 1e-9)
	assert.InDelta(t, 0.0, services.NameSimilarity("", "bia"), 1e-9)
}
