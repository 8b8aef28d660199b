// Package kernel provides the shared value objects of the delivery domain:
//   - UUID: identifiers for couriers, deliveries, shops and messages
//   - GeoPoint: validated WGS84 coordinate with great-circle distance (Distance)
//   - TrackPoint: a timestamped sample of a courier location trace
//   - RandomSource: injectable randomness so randomized components stay testable
//
// All values are immutable and safe for concurrent use.
package kernel
