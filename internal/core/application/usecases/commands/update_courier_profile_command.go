package commands

import (
	"errors"
	"math"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrUpdateCourierProfileCommandIsNotConstructed = errors.New(
	"UpdateCourierProfileCommand must be created via NewUpdateCourierProfileCommand constructor",
)

// UpdateCourierProfileCommand replaces the host-managed part of a courier
// profile: availability, provider names and wallet balance. A new ranking
// score and a fresh identity verification are optional.
type UpdateCourierProfileCommand struct { //nolint:recvcheck //using for validation
	courierID     kernel.UUID
	available     bool
	names         courier.IdentityNames
	walletBalance float64
	rankingScore  *int
	verifiedAt    *time.Time

	guard guard.ConstructorGuard
}

// NewUpdateCourierProfileCommand creates a profile update. rankingScore and
// verifiedAt may be nil to keep the stored values.
func NewUpdateCourierProfileCommand(
	courierID kernel.UUID,
	available bool,
	names courier.IdentityNames,
	walletBalance float64,
	rankingScore *int,
	verifiedAt *time.Time,
) (UpdateCourierProfileCommand, error) {
	command := UpdateCourierProfileCommand{
		available: available,
		names:     names,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setWalletBalance(walletBalance),
		command.setRankingScore(rankingScore),
		command.setVerifiedAt(verifiedAt),
	); err != nil {
		return UpdateCourierProfileCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierProfileCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierProfileCommandIsNotConstructed)
}

func (c UpdateCourierProfileCommand) CourierID() kernel.UUID { return c.courierID }

func (c UpdateCourierProfileCommand) Available() bool { return c.available }

func (c UpdateCourierProfileCommand) Names() courier.IdentityNames { return c.names }

func (c UpdateCourierProfileCommand) WalletBalance() float64 { return c.walletBalance }

// RankingScore returns the new ranking score, or nil to keep the stored one.
func (c UpdateCourierProfileCommand) RankingScore() *int {
	if c.rankingScore == nil {
		return nil
	}
	score := *c.rankingScore
	return &score
}

// VerifiedAt returns the time of a new verification, or nil when none happened.
func (c UpdateCourierProfileCommand) VerifiedAt() *time.Time {
	if c.verifiedAt == nil {
		return nil
	}
	at := *c.verifiedAt
	return &at
}

func (c *UpdateCourierProfileCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *UpdateCourierProfileCommand) setWalletBalance(balance float64) error {
	if math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return errs.NewValueIsOutOfRangeError("wallet balance", balance, 0, nil)
	}

	c.walletBalance = balance
	return nil
}

func (c *UpdateCourierProfileCommand) setRankingScore(score *int) error {
	if score == nil {
		return nil
	}
	if *score < 0 || *score > courier.MaxRankingScore {
		return errs.NewValueIsOutOfRangeError("ranking score", *score, 0, courier.MaxRankingScore)
	}

	ranking := *score
	c.rankingScore = &ranking
	return nil
}

func (c *UpdateCourierProfileCommand) setVerifiedAt(at *time.Time) error {
	if at == nil {
		return nil
	}
	if at.IsZero() {
		return ErrTimestampIsRequired
	}

	verified := *at
	c.verifiedAt = &verified
	return nil
}
