package commands

import (
	"context"
	"errors"
)

// UpdateCourierProfileCommandHandler applies profile updates to couriers.
type UpdateCourierProfileCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewUpdateCourierProfileCommandHandler creates a handler for profile updates.
func NewUpdateCourierProfileCommandHandler(uowFactory CourierUoWFactory) UpdateCourierProfileCommandHandler {
	return UpdateCourierProfileCommandHandler{uowFactory: uowFactory}
}

// Handle loads the courier, applies the profile and persists it.
func (h UpdateCourierProfileCommandHandler) Handle(ctx context.Context, cmd UpdateCourierProfileCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	c.SetAvailable(cmd.Available())
	c.SetNames(cmd.Names())
	err = c.SetWalletBalance(cmd.WalletBalance())
	if score := cmd.RankingScore(); score != nil {
		err = errors.Join(err, c.SetRankingScore(*score))
	}
	if at := cmd.VerifiedAt(); at != nil {
		err = errors.Join(err, c.RecordVerification(*at))
	}
	if err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
