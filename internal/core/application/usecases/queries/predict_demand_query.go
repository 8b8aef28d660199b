package queries

import (
	"errors"
	"strings"
	"time"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrPredictDemandQueryIsNotConstructed = errors.New(
		"PredictDemandQuery must be created via NewPredictDemandQuery constructor",
	)
	ErrCityIsRequired = errs.NewValueIsRequiredError("city")
)

// PredictDemandQuery asks for the demand heatmap of a city at a moment.
type PredictDemandQuery struct { //nolint:recvcheck //using for validation
	city string
	at   time.Time

	guard guard.ConstructorGuard
}

func NewPredictDemandQuery(city string, at time.Time) (PredictDemandQuery, error) {
	city = strings.TrimSpace(city)

	var errList []error
	if city == "" {
		errList = append(errList, ErrCityIsRequired)
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return PredictDemandQuery{}, err
	}

	return PredictDemandQuery{city: city, at: at, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q PredictDemandQuery) Validate() error {
	return q.guard.Validate(ErrPredictDemandQueryIsNotConstructed)
}

func (q PredictDemandQuery) City() string { return q.city }

func (q PredictDemandQuery) At() time.Time { return q.at }
