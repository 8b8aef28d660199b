package services

import (
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
)

const (
	newAccountDays           = 7
	elevatedRiskReverifyDays = 1
	regularReverifyDays      = 30
	payoutReverifyDays       = 7
	highPayoutThreshold      = 500.0
)

// InconsistencyType names a cross-provider identity mismatch.
type InconsistencyType string

const (
	NameMismatch     InconsistencyType = "name_mismatch"
	DocumentMismatch InconsistencyType = "cnh_name_mismatch"
	BankNameMismatch InconsistencyType = "bank_name_mismatch"
)

// Severity grades an inconsistency.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Inconsistency is one failed name comparison.
type Inconsistency struct {
	Type       InconsistencyType
	Severity   Severity
	Similarity float64
	Details    string
}

// ConsistencyReport scores how well the provider-supplied names agree with
// the declared profile name.
type ConsistencyReport struct {
	CourierID            kernel.UUID
	ConsistencyScore     int
	Inconsistencies      []Inconsistency
	RequiresManualReview bool
	VerifiedAt           time.Time
}

// IdentityVerifier decides when couriers must re-verify their identity and
// cross-checks the names known for them.
type IdentityVerifier struct{}

func NewIdentityVerifier() IdentityVerifier {
	return IdentityVerifier{}
}

// RequiresVerification reports whether c is due for an identity check at now.
// Any of these triggers it:
//   - account at most 7 days old and never verified
//   - high or critical risk and never verified or verified at least 1 day ago
//   - never verified or verified at least 30 days ago
//   - wallet above 500 and never verified or verified at least 7 days ago
func (v IdentityVerifier) RequiresVerification(c *courier.Courier, now time.Time) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	days, verified := c.DaysSinceVerification(now)
	dueAfter := func(limit int) bool { return !verified || days >= limit }

	switch {
	case c.AccountAgeDays(now) <= newAccountDays && !verified:
		return true, nil
	case c.RiskLevel().IsElevated() && dueAfter(elevatedRiskReverifyDays):
		return true, nil
	case dueAfter(regularReverifyDays):
		return true, nil
	case c.WalletBalance() > highPayoutThreshold && dueAfter(payoutReverifyDays):
		return true, nil
	default:
		return false, nil
	}
}

// VerifyConsistency compares the OAuth, document and bank holder names with
// the declared name. Every missing name is skipped; each mismatch costs 25
// points of a 100 score.
func (v IdentityVerifier) VerifyConsistency(c *courier.Courier, now time.Time) (ConsistencyReport, error) {
	if err := c.Validate(); err != nil {
		return ConsistencyReport{}, err
	}

	checks := []struct {
		other     string
		threshold float64
		kind      InconsistencyType
		severity  Severity
		label     string
	}{
		{c.Names().OAuth, 0.8, NameMismatch, SeverityMedium, "OAuth name"},
		{c.Names().Document, 0.9, DocumentMismatch, SeverityHigh, "Document name"},
		{c.Names().BankHolder, 0.8, BankNameMismatch, SeverityHigh, "Bank account"},
	}

	var found []Inconsistency
	for _, check := range checks {
		if check.other == "" || c.Name() == "" {
			continue
		}
		similarity := NameSimilarity(check.other, c.Name())
		if similarity < check.threshold {
			found = append(found, Inconsistency{
				Type:       check.kind,
				Severity:   check.severity,
				Similarity: similarity,
				Details:    fmt.Sprintf("%s vs Profile name similarity: %.2f", check.label, similarity),
			})
		}
	}

	return ConsistencyReport{
		CourierID:            c.ID(),
		ConsistencyScore:     max(0, 100-25*len(found)),
		Inconsistencies:      found,
		RequiresManualReview: len(found) > 0,
		VerifiedAt:           now,
	}, nil
}

// NameSimilarity is 1 for names equal after trimming and lowercasing, and the
// Jaccard index of their word sets otherwise.
func NameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}

	left := wordSet(a)
	right := wordSet(b)
	union := make(map[string]struct{}, len(left)+len(right))
	intersection := 0
	for w := range left {
		union[w] = struct{}{}
		if _, ok := right[w]; ok {
			intersection++
		}
	}
	for w := range right {
		union[w] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
