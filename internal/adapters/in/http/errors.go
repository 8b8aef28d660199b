package http

import (
	"errors"
	"net/http"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/pkg/errs"
)

// statusFor maps a use case error to its HTTP status. Input errors are
// checked first since some of them wrap domain sentinels as their cause.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, commands.ErrDeliveryIsNotPending),
		errors.Is(err, delivery.ErrInvalidTransition),
		errors.Is(err, delivery.ErrPinNotValidated),
		errors.Is(err, delivery.ErrPinAlreadyIssued),
		errors.Is(err, queries.ErrCourierLocationIsUnknown):
		return http.StatusConflict
	case errors.Is(err, commands.ErrCityIsNotServed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
