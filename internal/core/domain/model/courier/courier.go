package courier

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	// DefaultRankingScore is the reputation of a freshly registered courier.
	DefaultRankingScore = 100
	// MaxRankingScore bounds the reputation metric.
	MaxRankingScore = 100
	// MaxLocationHistory is the number of most recent track points retained.
	MaxLocationHistory = 500
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrBaseCityIsRequired is returned when creating a courier without a base city.
	ErrBaseCityIsRequired = errs.NewValueIsRequiredError("base city")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// IdentityNames are the names a courier is known by across providers. Empty
// fields mean the provider did not supply one.
type IdentityNames struct {
	// OAuth is the name returned by the OAuth identity provider.
	OAuth string
	// Document is the name extracted from the driver licence.
	Document string
	// BankHolder is the holder name of the payout bank account.
	BankHolder string
}

// Courier is the aggregate root for a delivery agent.
//
// Key responsibilities:
//   - Identity (ID, declared name, provider names) and verification state
//   - Current coordinate, which is nil until the first location update
//   - Availability and base city, used to filter match candidates
//   - Rolling delivery history and location trace, read by risk analysis
//
// Business rules:
//   - Ranking score stays within 0..100 and is written only by the host
//   - The location trace keeps the most recent MaxLocationHistory points
//   - Wallet balance is never negative
//
// Example:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Ana Souza", "São Roque", time.Now())
//	if err != nil {
//	    return err
//	}
//	p, _ := kernel.NewTrackPoint(-23.53, -47.13, time.Now())
//	c.UpdateLocation(p)
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the declared profile name
	name string
	// baseCity is the city the courier operates in
	baseCity string
	// location is the current coordinate, nil when unknown
	location *kernel.GeoPoint
	// available tells whether the courier accepts new deliveries
	available bool
	// rankingScore is the 0..100 reputation metric
	rankingScore int
	// deliveryHistory holds past deliveries, oldest first
	deliveryHistory []DeliverySnapshot
	// locationHistory holds track points, oldest first
	locationHistory []kernel.TrackPoint
	// createdAt is the account creation time
	createdAt time.Time
	// lastVerifiedAt is the last successful identity verification, nil if never
	lastVerifiedAt *time.Time
	// riskLevel is the level assigned by the last risk sweep
	riskLevel RiskLevel
	// walletBalance is the pending payout in BRL
	walletBalance float64
	// names are the provider-supplied names for consistency checks
	names IdentityNames
	// version is the optimistic concurrency token of the stored row
	version int64
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier registers a new courier.
//
// The courier starts available, with the default ranking score, low risk, an
// empty wallet, no coordinate and no history.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - name: declared name (must be non-empty)
//   - baseCity: city of operation (must be non-empty)
//   - createdAt: account creation time (must be set)
//
// Returns:
//   - *Courier: the new aggregate
//   - error: joined validation errors
func NewCourier(id kernel.UUID, name, baseCity string, createdAt time.Time) (*Courier, error) {
	c := &Courier{
		available:    true,
		rankingScore: DefaultRankingScore,
		riskLevel:    RiskLow,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setBaseCity(baseCity),
		c.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// State is the persisted form of a Courier, consumed by RestoreCourier.
type State struct {
	ID              kernel.UUID
	Name            string
	BaseCity        string
	Location        *kernel.GeoPoint
	Available       bool
	RankingScore    int
	DeliveryHistory []DeliverySnapshot
	LocationHistory []kernel.TrackPoint
	CreatedAt       time.Time
	LastVerifiedAt  *time.Time
	RiskLevel       RiskLevel
	WalletBalance   float64
	Names           IdentityNames
	Version         int64
}

// RestoreCourier reconstructs a Courier from storage. Unlike NewCourier it
// takes every field as persisted; an empty risk level is read as low.
//
// Example:
//
//	c, err := courier.RestoreCourier(courier.State{ID: id, Name: "Ana", BaseCity: "Ibiúna", ...})
//	if err != nil {
//	    return fmt.Errorf("restoration failed: %w", err)
//	}
func RestoreCourier(s State) (*Courier, error) {
	c := &Courier{
		available: s.Available,
		names:     s.Names,
		version:   s.Version,
		guard:     guard.NewConstructorGuard(),
	}

	riskLevel := s.RiskLevel
	if riskLevel == "" {
		riskLevel = RiskLow
	}

	if err := errors.Join(
		c.setID(s.ID),
		c.setName(s.Name),
		c.setBaseCity(s.BaseCity),
		c.setCreatedAt(s.CreatedAt),
		c.setLocation(s.Location),
		c.SetRankingScore(s.RankingScore),
		c.SetRiskLevel(riskLevel),
		c.SetWalletBalance(s.WalletBalance),
	); err != nil {
		return nil, err
	}

	c.deliveryHistory = slices.Clone(s.DeliveryHistory)
	c.locationHistory = lastN(s.LocationHistory, MaxLocationHistory)
	if s.LastVerifiedAt != nil {
		at := *s.LastVerifiedAt
		c.lastVerifiedAt = &at
	}

	return c, nil
}

// IsEqual compares couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate fails for a nil or zero-value Courier.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the declared profile name.
func (c *Courier) Name() string {
	return c.name
}

// BaseCity returns the city of operation.
func (c *Courier) BaseCity() string {
	return c.baseCity
}

// Location returns a copy of the current coordinate, nil when unknown.
func (c *Courier) Location() *kernel.GeoPoint {
	if c.location == nil {
		return nil
	}
	p := *c.location
	return &p
}

// Version is the optimistic concurrency token of the stored row. Couriers
// created with NewCourier start at 0.
func (c *Courier) Version() int64 {
	return c.version
}

// IsAvailable reports whether the courier accepts new deliveries.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// RankingScore returns the 0..100 reputation metric.
func (c *Courier) RankingScore() int {
	return c.rankingScore
}

// DeliveryHistory returns the past deliveries, oldest first.
func (c *Courier) DeliveryHistory() []DeliverySnapshot {
	return slices.Clone(c.deliveryHistory)
}

// LocationHistory returns the location trace, oldest first.
func (c *Courier) LocationHistory() []kernel.TrackPoint {
	return slices.Clone(c.locationHistory)
}

// CreatedAt returns the account creation time.
func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// LastVerifiedAt returns the last identity verification, nil if never verified.
func (c *Courier) LastVerifiedAt() *time.Time {
	if c.lastVerifiedAt == nil {
		return nil
	}
	at := *c.lastVerifiedAt
	return &at
}

// RiskLevel returns the level assigned by the last risk analysis.
func (c *Courier) RiskLevel() RiskLevel {
	return c.riskLevel
}

// WalletBalance returns the pending payout.
func (c *Courier) WalletBalance() float64 {
	return c.walletBalance
}

// Names returns the provider-supplied names.
func (c *Courier) Names() IdentityNames {
	return c.names
}

// AccountAgeDays returns the whole days elapsed since account creation.
func (c *Courier) AccountAgeDays(now time.Time) int {
	return wholeDays(now.Sub(c.createdAt))
}

// DaysSinceVerification returns whole days since the last verification and
// false when the courier was never verified.
func (c *Courier) DaysSinceVerification(now time.Time) (int, bool) {
	if c.lastVerifiedAt == nil {
		return 0, false
	}
	return wholeDays(now.Sub(*c.lastVerifiedAt)), true
}

// UpdateLocation moves the courier and appends the point to the trace,
// discarding the oldest points beyond MaxLocationHistory.
func (c *Courier) UpdateLocation(p kernel.TrackPoint) error {
	if err := p.Point().Validate(); err != nil {
		return err
	}
	point := p.Point()
	c.location = &point
	c.locationHistory = lastN(append(c.locationHistory, p), MaxLocationHistory)
	return nil
}

// SetAvailable toggles whether the courier accepts deliveries.
func (c *Courier) SetAvailable(available bool) {
	c.available = available
}

// SetRiskLevel stores the outcome of a risk analysis.
func (c *Courier) SetRiskLevel(level RiskLevel) error {
	if err := level.Validate(); err != nil {
		return err
	}
	c.riskLevel = level
	return nil
}

// SetWalletBalance replaces the pending payout.
func (c *Courier) SetWalletBalance(balance float64) error {
	if math.IsNaN(balance) || balance < 0 {
		return errs.NewValueIsOutOfRangeError("wallet balance", balance, 0, nil)
	}
	c.walletBalance = balance
	return nil
}

// SetNames replaces the provider-supplied names. Values are trimmed.
func (c *Courier) SetNames(names IdentityNames) {
	c.names = IdentityNames{
		OAuth:      strings.TrimSpace(names.OAuth),
		Document:   strings.TrimSpace(names.Document),
		BankHolder: strings.TrimSpace(names.BankHolder),
	}
}

// RecordVerification marks a successful identity verification.
func (c *Courier) RecordVerification(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("verified at")
	}
	c.lastVerifiedAt = &at
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setBaseCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrBaseCityIsRequired
	}
	c.baseCity = city
	return nil
}

func (c *Courier) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	c.createdAt = at
	return nil
}

func (c *Courier) setLocation(p *kernel.GeoPoint) error {
	if p == nil {
		c.location = nil
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	point := *p
	c.location = &point
	return nil
}

// SetRankingScore replaces the 0..100 reputation metric maintained by the
// marketplace from customer ratings.
func (c *Courier) SetRankingScore(score int) error {
	if score < 0 || score > MaxRankingScore {
		return errs.NewValueIsOutOfRangeErrorWithCause("ranking score", score, 0, MaxRankingScore,
			fmt.Errorf("%d is outside the reputation scale", score))
	}
	c.rankingScore = score
	return nil
}

func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func lastN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return slices.Clone(items)
}
