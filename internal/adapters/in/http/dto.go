package http

import (
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"github.com/google/uuid"
)

// Error is the body of every rejected request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	City string  `json:"city"`
}

type Created struct {
	ID uuid.UUID `json:"id"`
}

// Requests.

type NewCourier struct {
	Name     string `json:"name"`
	BaseCity string `json:"base_city"`
}

type LocationUpdate struct {
	Lat float64    `json:"lat"`
	Lng float64    `json:"lng"`
	At  *time.Time `json:"at,omitempty"`
}

type CourierProfile struct {
	Available      bool       `json:"available"`
	OAuthName      string     `json:"oauth_name"`
	DocumentName   string     `json:"document_name"`
	BankHolderName string     `json:"bank_holder_name"`
	WalletBalance  float64    `json:"wallet_balance"`
	RankingScore   *int       `json:"ranking_score,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
}

type NewDelivery struct {
	ShopID   uuid.UUID `json:"shop_id"`
	Pickup   Address   `json:"pickup"`
	Drop     Address   `json:"drop"`
	Priority int       `json:"priority"`
}

type PinAttempt struct {
	Code string `json:"code"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type ChatMessage struct {
	AuthorID string `json:"author_id"`
	City     string `json:"city"`
	Message  string `json:"message"`
}

// Responses.

type Courier struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BaseCity     string    `json:"base_city"`
	Location     *Point    `json:"location,omitempty"`
	RankingScore int       `json:"ranking_score"`
	RiskLevel    string    `json:"risk_level"`
}

type UnfinishedDelivery struct {
	ID         uuid.UUID  `json:"id"`
	Status     string     `json:"status"`
	PickupCity string     `json:"pickup_city"`
	CourierID  *uuid.UUID `json:"courier_id,omitempty"`
	Priority   int        `json:"priority"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Pricing struct {
	DistanceKm      float64 `json:"distance_km"`
	BasePrice       float64 `json:"base_price"`
	AdditionalPrice float64 `json:"additional_price"`
	TotalPrice      float64 `json:"total_price"`
	PlatformFee     float64 `json:"platform_fee"`
	CourierEarning  float64 `json:"courier_earning"`
}

type CreatedDelivery struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Pricing Pricing   `json:"pricing"`
}

type Candidate struct {
	CourierID        uuid.UUID `json:"courier_id"`
	RankingScore     int       `json:"ranking_score"`
	DistanceToPickup float64   `json:"distance_to_pickup_km"`
	ProximityScore   float64   `json:"proximity_score"`
	WeightedScore    float64   `json:"weighted_score"`
}

// MatchResult omits the courier and PIN fields when the delivery stays pending.
type MatchResult struct {
	Matched       bool        `json:"matched"`
	CourierID     *uuid.UUID  `json:"courier_id,omitempty"`
	HandoffPin    string      `json:"handoff_pin,omitempty"`
	AmountToDebit float64     `json:"amount_to_debit,omitempty"`
	Candidates    []Candidate `json:"candidates"`
}

type PinOutcome struct {
	Result    string `json:"result"`
	Attempts  int    `json:"attempts"`
	Remaining int    `json:"remaining"`
}

type RiskFactor struct {
	Factor  string             `json:"factor"`
	Score   float64            `json:"score"`
	Details string             `json:"details"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

type RiskReport struct {
	CourierID            uuid.UUID    `json:"courier_id"`
	RiskScore            float64      `json:"risk_score"`
	RiskLevel            string       `json:"risk_level"`
	Factors              []RiskFactor `json:"factors"`
	RequiresManualReview bool         `json:"requires_manual_review"`
	RecommendedActions   []string     `json:"recommended_actions"`
	AnalyzedAt           time.Time    `json:"analyzed_at"`
}

type Inconsistency struct {
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Similarity float64 `json:"similarity"`
	Details    string  `json:"details"`
}

type Consistency struct {
	ConsistencyScore     int             `json:"consistency_score"`
	Inconsistencies      []Inconsistency `json:"inconsistencies"`
	RequiresManualReview bool            `json:"requires_manual_review"`
}

type SecurityAssessment struct {
	CourierID                 uuid.UUID   `json:"courier_id"`
	Risk                      RiskReport  `json:"risk_analysis"`
	NeedsIdentityVerification bool        `json:"needs_identity_verification"`
	Consistency               Consistency `json:"identity_consistency"`
	OverallSecurityScore      float64     `json:"overall_security_score"`
	AssessedAt                time.Time   `json:"assessed_at"`
}

type RoutePoint struct {
	Kind       string     `json:"type"`
	DeliveryID *uuid.UUID `json:"delivery_id,omitempty"`
	Location   Point      `json:"location"`
	Priority   int        `json:"priority"`
}

type FuelSavings struct {
	DistanceSavedKm       float64 `json:"distance_saved_km"`
	MoneySaved            float64 `json:"money_saved"`
	EfficiencyImprovement float64 `json:"efficiency_improvement"`
}

type RoutePlan struct {
	Sequence          []RoutePoint `json:"optimized_sequence"`
	TotalDistanceKm   float64      `json:"total_distance_km"`
	EstimatedMinutes  float64      `json:"estimated_time_minutes"`
	FuelSavings       FuelSavings  `json:"fuel_savings"`
	OptimizationScore float64      `json:"optimization_score"`
}

type DemandFactors struct {
	Hour    float64 `json:"hour"`
	Day     float64 `json:"day"`
	Zone    float64 `json:"zone"`
	Weather float64 `json:"weather"`
}

type ZoneDemand struct {
	ZoneID          string        `json:"zone_id"`
	ZoneName        string        `json:"zone_name"`
	Center          Point         `json:"center"`
	RadiusKm        float64       `json:"radius_km"`
	PredictedDemand float64       `json:"predicted_demand"`
	Confidence      float64       `json:"confidence"`
	PeakHours       []string      `json:"peak_hours"`
	Factors         DemandFactors `json:"factors"`
}

type CityDemand struct {
	Level           string  `json:"level"`
	Score           float64 `json:"score"`
	TotalZones      int     `json:"total_zones"`
	HighDemandZones int     `json:"high_demand_zones"`
}

type Heatmap struct {
	City            string       `json:"city"`
	PredictedFor    time.Time    `json:"predicted_for"`
	Zones           []ZoneDemand `json:"zones"`
	TopZones        []ZoneDemand `json:"top_zones"`
	Overall         CityDemand   `json:"overall_demand"`
	Recommendations []string     `json:"recommendations"`
}

type ModerationResult struct {
	MessageID       uuid.UUID `json:"message_id"`
	AuthorID        string    `json:"author_id"`
	City            string    `json:"city,omitempty"`
	OriginalMessage string    `json:"original_message"`
	FilteredMessage string    `json:"filtered_message"`
	Action          string    `json:"action"`
	Confidence      float64   `json:"confidence"`
	Flags           []string  `json:"flags"`
	SpamReason      string    `json:"spam_reason,omitempty"`
	ModeratedAt     time.Time `json:"moderated_at"`
}

func pointOf(p kernel.GeoPoint) Point {
	return Point{Lat: p.Lat(), Lng: p.Lng()}
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	b := id.Bytes()
	return &b
}

func couriersOf(list []queries.GetAvailableCouriersQueryResponse) []Courier {
	out := make([]Courier, len(list))
	for i, c := range list {
		out[i] = Courier{
			ID:           c.ID.Bytes(),
			Name:         c.Name,
			BaseCity:     c.BaseCity,
			RankingScore: c.RankingScore,
			RiskLevel:    string(c.RiskLevel),
		}
		if c.Location != nil {
			p := pointOf(*c.Location)
			out[i].Location = &p
		}
	}
	return out
}

func unfinishedDeliveriesOf(list []queries.GetUnfinishedDeliveriesQueryResponse) []UnfinishedDelivery {
	out := make([]UnfinishedDelivery, len(list))
	for i, d := range list {
		out[i] = UnfinishedDelivery{
			ID:         d.ID.Bytes(),
			Status:     d.Status.String(),
			PickupCity: d.PickupCity,
			CourierID:  uuidPtr(d.CourierID),
			Priority:   d.Priority,
			TotalPrice: d.TotalPrice,
			CreatedAt:  d.CreatedAt,
		}
	}
	return out
}

func pricingOf(p delivery.Pricing) Pricing {
	return Pricing{
		DistanceKm:      p.DistanceKm,
		BasePrice:       p.BasePrice,
		AdditionalPrice: p.AdditionalPrice,
		TotalPrice:      p.TotalPrice,
		PlatformFee:     p.PlatformFee,
		CourierEarning:  p.CourierEarning,
	}
}

func matchResultOf(r commands.MatchResult) MatchResult {
	out := MatchResult{
		Matched:    r.Matched,
		Candidates: make([]Candidate, len(r.Decision.Candidates)),
	}
	for i, c := range r.Decision.Candidates {
		out.Candidates[i] = Candidate{
			CourierID:        c.CourierID.Bytes(),
			RankingScore:     c.RankingScore,
			DistanceToPickup: c.DistanceToPickup,
			ProximityScore:   c.ProximityScore,
			WeightedScore:    c.WeightedScore,
		}
	}
	if r.Matched {
		out.CourierID = uuidPtr(&r.CourierID)
		out.HandoffPin = r.HandoffPin
		out.AmountToDebit = r.AmountToDebit
	}
	return out
}

func pinOutcomeOf(o delivery.PinOutcome) PinOutcome {
	return PinOutcome{Result: string(o.Result), Attempts: o.Attempts, Remaining: o.Remaining}
}

func riskReportOf(r services.RiskReport) RiskReport {
	out := RiskReport{
		CourierID:            r.CourierID.Bytes(),
		RiskScore:            r.RiskScore,
		RiskLevel:            string(r.RiskLevel),
		Factors:              make([]RiskFactor, len(r.Factors)),
		RequiresManualReview: r.RequiresManualReview,
		RecommendedActions:   r.RecommendedActions,
		AnalyzedAt:           r.AnalyzedAt,
	}
	for i, f := range r.Factors {
		out.Factors[i] = RiskFactor{Factor: string(f.Factor), Score: f.Score, Details: f.Details, Metrics: f.Metrics}
	}
	return out
}

func securityAssessmentOf(a services.SecurityAssessment) SecurityAssessment {
	consistency := Consistency{
		ConsistencyScore:     a.Consistency.ConsistencyScore,
		Inconsistencies:      make([]Inconsistency, len(a.Consistency.Inconsistencies)),
		RequiresManualReview: a.Consistency.RequiresManualReview,
	}
	for i, inc := range a.Consistency.Inconsistencies {
		consistency.Inconsistencies[i] = Inconsistency{
			Type:       string(inc.Type),
			Severity:   string(inc.Severity),
			Similarity: inc.Similarity,
			Details:    inc.Details,
		}
	}

	return SecurityAssessment{
		CourierID:                 a.CourierID.Bytes(),
		Risk:                      riskReportOf(a.Risk),
		NeedsIdentityVerification: a.NeedsIdentityVerification,
		Consistency:               consistency,
		OverallSecurityScore:      a.OverallSecurityScore,
		AssessedAt:                a.AssessedAt,
	}
}

func routePlanOf(p services.RoutePlan) RoutePlan {
	out := RoutePlan{
		Sequence:         make([]RoutePoint, len(p.Sequence)),
		TotalDistanceKm:  p.TotalDistanceKm,
		EstimatedMinutes: p.EstimatedMinutes,
		FuelSavings: FuelSavings{
			DistanceSavedKm:       p.FuelSavings.DistanceSavedKm,
			MoneySaved:            p.FuelSavings.MoneySaved,
			EfficiencyImprovement: p.FuelSavings.EfficiencyImprovement,
		},
		OptimizationScore: p.OptimizationScore,
	}
	for i, rp := range p.Sequence {
		out.Sequence[i] = RoutePoint{
			Kind:     string(rp.Kind),
			Location: pointOf(rp.Location),
			Priority: rp.Priority,
		}
		if rp.Kind != services.PointStart {
			out.Sequence[i].DeliveryID = uuidPtr(&rp.DeliveryID)
		}
	}
	return out
}

func zonesOf(zones []services.ZoneDemand) []ZoneDemand {
	out := make([]ZoneDemand, len(zones))
	for i, z := range zones {
		out[i] = ZoneDemand{
			ZoneID:          z.ZoneID,
			ZoneName:        z.ZoneName,
			Center:          pointOf(z.Center),
			RadiusKm:        z.RadiusKm,
			PredictedDemand: z.PredictedDemand,
			Confidence:      z.Confidence,
			PeakHours:       z.PeakHours,
			Factors: DemandFactors{
				Hour:    z.Factors.Hour,
				Day:     z.Factors.Day,
				Zone:    z.Factors.Zone,
				Weather: z.Factors.Weather,
			},
		}
	}
	return out
}

func heatmapOf(h services.Heatmap) Heatmap {
	return Heatmap{
		City:         h.City,
		PredictedFor: h.PredictedFor,
		Zones:        zonesOf(h.Zones),
		TopZones:     zonesOf(h.TopZones),
		Overall: CityDemand{
			Level:           string(h.Overall.Level),
			Score:           h.Overall.Score,
			TotalZones:      h.Overall.TotalZones,
			HighDemandZones: h.Overall.HighDemandZones,
		},
		Recommendations: h.Recommendations,
	}
}

func moderationResultOf(r services.ModerationResult) ModerationResult {
	return ModerationResult{
		MessageID:       r.MessageID.Bytes(),
		AuthorID:        r.AuthorID,
		City:            r.City,
		OriginalMessage: r.OriginalMessage,
		FilteredMessage: r.FilteredMessage,
		Action:          string(r.Action),
		Confidence:      r.Confidence,
		Flags:           r.Flags,
		SpamReason:      string(r.SpamReason),
		ModeratedAt:     r.ModeratedAt,
	}
}
