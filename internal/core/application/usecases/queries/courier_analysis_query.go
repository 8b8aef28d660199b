package queries

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCourierAnalysisQueryIsNotConstructed = errors.New(
		"CourierAnalysisQuery must be created via NewCourierAnalysisQuery constructor",
	)
	ErrTimestampIsRequired = errs.NewValueIsRequiredError("at")
)

// CourierAnalysisQuery names a courier and the instant an analysis is run
// for. It is shared by the risk, security and route queries.
//
// Example:
//
//	query, err := NewCourierAnalysisQuery(courierID, time.Now())
//	if err != nil {
//	    return err
//	}
//	report, err := riskHandler.Handle(ctx, query)
type CourierAnalysisQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	at        time.Time

	guard guard.ConstructorGuard
}

// NewCourierAnalysisQuery validates the courier identifier and timestamp.
func NewCourierAnalysisQuery(courierID kernel.UUID, at time.Time) (CourierAnalysisQuery, error) {
	var errList []error
	if err := courierID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return CourierAnalysisQuery{}, err
	}

	return CourierAnalysisQuery{
		courierID: courierID,
		at:        at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q CourierAnalysisQuery) Validate() error {
	return q.guard.Validate(ErrCourierAnalysisQueryIsNotConstructed)
}

func (q CourierAnalysisQuery) CourierID() kernel.UUID { return q.courierID }

func (q CourierAnalysisQuery) At() time.Time { return q.at }
