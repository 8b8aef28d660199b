// Package services provides the domain services of the marketplace: logic
// that spans aggregates or reads them without owning state.
//
// The package includes:
//   - DeliveryMatcher: picks the courier for a pending delivery
//   - RiskAnalyzer: behavioural fraud scoring of a courier
//   - IdentityVerifier: re-verification policy and name consistency checks
//   - SecurityAssessor: combined risk and identity score
//   - RouteOptimizer: multi-stop sequencing with fuel savings estimate
//   - DemandPredictor: per-zone demand heatmap of a served city
//   - ChatModerator: community chat classification
//
// Services are synchronous and never perform I/O; callers hand them fully
// loaded aggregates.
package services
