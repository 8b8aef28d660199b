// Package courier provides the Courier aggregate root of the marketplace.
//
// A courier carries its identity profile (declared and provider-supplied
// names, verification date, wallet balance), its matching inputs (current
// coordinate, availability, base city, ranking score) and the rolling
// delivery and location history that risk analysis reads.
//
// Key business rules:
//   - A courier has a valid identifier, a name and a base city
//   - The current coordinate is optional; couriers without one are never matched
//   - The location trace is bounded to MaxLocationHistory points
//   - The ranking score is external input and only read by the domain services
package courier
