package commands

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// MatchRoundResult summarizes a matching round.
type MatchRoundResult struct {
	// Processed is the number of pending deliveries looked at.
	Processed int
	// Matched is the number of deliveries that got a courier.
	Matched int
	// Skipped counts deliveries changed by a concurrent writer.
	Skipped int
}

// MatchPendingDeliveriesCommandHandler matches pending deliveries one by one,
// each in its own transaction.
type MatchPendingDeliveriesCommandHandler struct {
	uowFactory UoWFactory
	match      MatchDeliveryCommandHandler
}

// NewMatchPendingDeliveriesCommandHandler creates a round handler.
func NewMatchPendingDeliveriesCommandHandler(
	uowFactory UoWFactory,
	random kernel.RandomSource,
) MatchPendingDeliveriesCommandHandler {
	return MatchPendingDeliveriesCommandHandler{
		uowFactory: uowFactory,
		match:      NewMatchDeliveryCommandHandler(uowFactory, random),
	}
}

// Handle lists the pending deliveries and tries to match each one. A delivery
// that was matched or cancelled meanwhile is skipped; any other failure stops
// the round.
func (h MatchPendingDeliveriesCommandHandler) Handle(
	ctx context.Context,
	cmd MatchPendingDeliveriesCommand,
) (MatchRoundResult, error) {
	if err := cmd.Validate(); err != nil {
		return MatchRoundResult{}, err
	}

	pending, err := h.listPending(ctx, cmd.Limit())
	if err != nil {
		return MatchRoundResult{}, err
	}

	var result MatchRoundResult
	for _, id := range pending {
		result.Processed++

		matchCmd, cmdErr := NewMatchDeliveryCommand(id, cmd.At())
		if cmdErr != nil {
			return result, cmdErr
		}

		outcome, matchErr := h.match.Handle(ctx, matchCmd)
		switch {
		case errors.Is(matchErr, errs.ErrVersionIsInvalid), errors.Is(matchErr, ErrDeliveryIsNotPending):
			result.Skipped++
		case matchErr != nil:
			return result, matchErr
		case outcome.Matched:
			result.Matched++
		}
	}

	return result, nil
}

func (h MatchPendingDeliveriesCommandHandler) listPending(ctx context.Context, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.DeliveryRepository().GetPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(pending))
	for _, d := range pending {
		ids = append(ids, d.ID())
	}
	return ids, nil
}
