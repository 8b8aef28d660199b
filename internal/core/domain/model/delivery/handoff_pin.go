package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

const (
	// PinLength is the length of the full handoff code.
	PinLength = 8
	// ConfirmCodeLength is the length of the code the recipient reads out.
	ConfirmCodeLength = 4
	// MaxPinAttempts is the number of wrong entries that blocks a PIN.
	MaxPinAttempts = 3

	pinAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	// ErrPinAlreadyIssued is returned when a PIN is generated twice for one delivery.
	ErrPinAlreadyIssued = errors.New("handoff pin already issued")
	// ErrPinNotValidated is returned when delivering before the PIN was confirmed.
	ErrPinNotValidated = errors.New("handoff pin not validated")
)

// PinResult names the outcome of a PIN validation attempt.
type PinResult string

const (
	PinValid     PinResult = "PIN_VALID"
	PinIncorrect PinResult = "PIN_INCORRECT"
	PinBlocked   PinResult = "PIN_BLOCKED"
	NoPin        PinResult = "NO_PIN"
)

// PinOutcome is returned by every validation attempt. Business rejections are
// outcomes, not errors.
type PinOutcome struct {
	Result    PinResult
	Attempts  int
	Remaining int
}

// HandoffPin is the one-time code that gates the delivered transition.
// The confirm code is always the last ConfirmCodeLength characters of the full
// code; once attempts reach MaxPinAttempts the PIN is blocked for good.
type HandoffPin struct {
	fullCode    string
	attempts    int
	blocked     bool
	validated   bool
	validatedAt *time.Time
}

// GenerateHandoffPin draws PinLength characters uniformly from A-Z0-9.
func GenerateHandoffPin(r kernel.RandomSource) HandoffPin {
	var sb strings.Builder
	sb.Grow(PinLength)
	for range PinLength {
		sb.WriteByte(pinAlphabet[r.IntN(len(pinAlphabet))])
	}
	return HandoffPin{fullCode: sb.String()}
}

// RestoreHandoffPin rebuilds a PIN sub-record from storage.
func RestoreHandoffPin(fullCode string, attempts int, blocked, validated bool, validatedAt *time.Time) (HandoffPin, error) {
	var errList []error
	if len(fullCode) != PinLength || strings.Trim(fullCode, pinAlphabet) != "" {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("pin",
			fmt.Errorf("%q is not %d characters of A-Z0-9", fullCode, PinLength)))
	}
	if attempts < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("pin attempts", attempts, 0, nil))
	}
	if validated && validatedAt == nil {
		errList = append(errList, errs.NewValueIsRequiredError("pin validated at"))
	}
	if err := errors.Join(errList...); err != nil {
		return HandoffPin{}, err
	}

	p := HandoffPin{
		fullCode:  fullCode,
		attempts:  attempts,
		blocked:   blocked || attempts >= MaxPinAttempts,
		validated: validated,
	}
	if validatedAt != nil {
		at := *validatedAt
		p.validatedAt = &at
	}
	return p, nil
}

func (p HandoffPin) FullCode() string { return p.fullCode }

// ConfirmCode returns the last four characters of the full code.
func (p HandoffPin) ConfirmCode() string { return p.fullCode[len(p.fullCode)-ConfirmCodeLength:] }

func (p HandoffPin) Attempts() int { return p.attempts }

func (p HandoffPin) IsBlocked() bool { return p.blocked }

func (p HandoffPin) IsValidated() bool { return p.validated }

func (p HandoffPin) ValidatedAt() *time.Time {
	if p.validatedAt == nil {
		return nil
	}
	at := *p.validatedAt
	return &at
}

// Remaining returns how many wrong entries are left before blocking.
func (p HandoffPin) Remaining() int {
	return max(0, MaxPinAttempts-p.attempts)
}

func (p *HandoffPin) check(entered string, now time.Time) PinOutcome {
	if p.blocked {
		return PinOutcome{Result: PinBlocked, Attempts: p.attempts}
	}

	if strings.EqualFold(strings.TrimSpace(entered), p.ConfirmCode()) {
		p.validated = true
		p.validatedAt = &now
		p.attempts = 0
		return PinOutcome{Result: PinValid, Remaining: MaxPinAttempts}
	}

	p.attempts++
	if p.attempts >= MaxPinAttempts {
		p.blocked = true
		return PinOutcome{Result: PinBlocked, Attempts: p.attempts}
	}
	return PinOutcome{Result: PinIncorrect, Attempts: p.attempts, Remaining: p.Remaining()}
}
