// Package errs provides the typed error family shared by the domain model,
// the use cases and the adapters.
//
// Every error type follows the same shape:
//   - a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...) for errors.Is checks
//   - a struct carrying the offending parameter and an optional cause
//   - New…Error / New…ErrorWithCause constructors
//   - Unwrap returning the sentinel
//
// ErrVersionIsInvalid is the optimistic-concurrency failure reported by the
// storage adapters when a conditional update loses a race.
package errs
