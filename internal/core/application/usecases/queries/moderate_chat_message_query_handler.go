package queries

import (
	"context"

	"lastmile/internal/core/domain/services"
)

// ModerateChatMessageQueryHandler runs the chat moderation pipeline. It has
// no side effects; storing or broadcasting the result is up to the caller.
type ModerateChatMessageQueryHandler struct {
	moderator services.ChatModerator
}

func NewModerateChatMessageQueryHandler() ModerateChatMessageQueryHandler {
	return ModerateChatMessageQueryHandler{moderator: services.NewChatModerator()}
}

func (h ModerateChatMessageQueryHandler) Handle(
	_ context.Context,
	query ModerateChatMessageQuery,
) (services.ModerationResult, error) {
	if err := query.Validate(); err != nil {
		return services.ModerationResult{}, err
	}

	return h.moderator.Moderate(query.Text(), query.Author(), query.City(), query.At()), nil
}
