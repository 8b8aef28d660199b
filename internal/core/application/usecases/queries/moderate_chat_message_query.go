package queries

import (
	"errors"
	"strings"
	"time"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrModerateChatMessageQueryIsNotConstructed = errors.New(
		"ModerateChatMessageQuery must be created via NewModerateChatMessageQuery constructor",
	)
	ErrAuthorIsRequired = errs.NewValueIsRequiredError("author")
)

// ModerateChatMessageQuery carries one community chat message to classify.
// The text is kept verbatim; an empty text is valid and approved.
type ModerateChatMessageQuery struct { //nolint:recvcheck //using for validation
	text   string
	author string
	city   string
	at     time.Time

	guard guard.ConstructorGuard
}

func NewModerateChatMessageQuery(text, author, city string, at time.Time) (ModerateChatMessageQuery, error) {
	author = strings.TrimSpace(author)

	var errList []error
	if author == "" {
		errList = append(errList, ErrAuthorIsRequired)
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return ModerateChatMessageQuery{}, err
	}

	return ModerateChatMessageQuery{
		text:   text,
		author: author,
		city:   strings.TrimSpace(city),
		at:     at,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ModerateChatMessageQuery) Validate() error {
	return q.guard.Validate(ErrModerateChatMessageQueryIsNotConstructed)
}

func (q ModerateChatMessageQuery) Text() string { return q.text }

func (q ModerateChatMessageQuery) Author() string { return q.author }

func (q ModerateChatMessageQuery) City() string { return q.city }

func (q ModerateChatMessageQuery) At() time.Time { return q.at }
