// Package delivery contains the Delivery aggregate: its lifecycle status
// machine, fare Pricing and the HandoffPin that gates the delivered
// transition.
//
// PIN protocol:
//
//	no_pin -> active -> validated
//	               \-> blocked (after MaxPinAttempts wrong entries, permanent)
//
// Validation rejections are PinOutcome values, never errors. Lifecycle
// violations are ErrInvalidTransition, ErrPinNotValidated and
// ErrPinAlreadyIssued.
package delivery
