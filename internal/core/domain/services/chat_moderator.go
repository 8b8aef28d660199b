package services

import (
	"strings"
	"time"
	"unicode"

	"lastmile/internal/core/domain/model/kernel"
)

// ModerationAction is the verdict on a chat message, ordered by severity.
type ModerationAction string

const (
	ActionApproved         ModerationAction = "approved"
	ActionFiltered         ModerationAction = "filtered"
	ActionFlaggedForReview ModerationAction = "flagged_for_review"
	ActionBlocked          ModerationAction = "blocked"
)

var actionSeverity = map[ModerationAction]int{
	ActionApproved:         0,
	ActionFiltered:         1,
	ActionFlaggedForReview: 2,
	ActionBlocked:          3,
}

// SpamReason tells which spam rule rejected a message.
type SpamReason string

const (
	SpamTooLong       SpamReason = "too_long"
	SpamRepeatedChars SpamReason = "repeated_chars"
	SpamExcessiveCaps SpamReason = "excessive_caps"
	SpamContainsURL   SpamReason = "contains_url"
)

// Moderation flags.
const (
	FlagProfanity       = "profanity"
	FlagSpam            = "spam"
	FlagLocationSharing = "location_sharing"
	FlagEmergency       = "emergency"
	FlagHarassment      = "harassment"
	FlagHelpful         = "helpful"
)

const (
	maxMessageRunes       = 500
	profanityConfidence   = 0.9
	minPositiveKeywords   = 2
	repeatedCharsRatio    = 0.5
	excessiveCapsRatio    = 0.7
	excessiveCapsMinRunes = 10
)

var profanity = []string{
	"idiota", "burro", "imbecil", "estúpido", "otário", "babaca",
	"corno", "fdp", "merda", "porra",
}

var positiveKeywords = []string{
	"obrigado", "valeu", "ajuda", "dica", "informação", "cuidado",
	"atenção", "trânsito", "blitz", "radar", "obras", "devagar",
	"segurança", "beleza", "tranquilo", "sucesso", "parabéns",
}

var safetyCategories = []struct {
	flag       string
	confidence float64
	keywords   []string
}{
	{FlagLocationSharing, 0.7, []string{"endereço", "onde moro", "casa", "rua", "número"}},
	{FlagEmergency, 0.9, []string{"acidente", "roubo", "assalto", "emergência", "socorro", "polícia"}},
	{FlagHarassment, 0.8, []string{"idiota", "burro", "incompetente"}},
}

// ModerationResult is the immutable verdict on one message.
type ModerationResult struct {
	MessageID       kernel.UUID
	AuthorID        string
	City            string
	OriginalMessage string
	FilteredMessage string
	Action          ModerationAction
	Confidence      float64
	Flags           []string
	SpamReason      SpamReason
	ModeratedAt     time.Time
}

// HasFlag reports whether flag was raised.
func (r ModerationResult) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ChatModerator classifies community chat messages.
//
// Pipeline:
//  1. profanity is masked with asterisks, action filtered
//  2. spam (too long, repeated characters, shouting, links) is blocked
//  3. safety keywords in the masked text flag the message for review
//  4. two or more positive keywords add the informational helpful flag
//
// A stage can only raise the action severity and only lower the confidence.
// Safety runs on the masked text, so a word already handled as profanity is
// not reported again as harassment.
type ChatModerator struct{}

func NewChatModerator() ChatModerator {
	return ChatModerator{}
}

// Moderate classifies text written by author in city.
func (m ChatModerator) Moderate(text, author, city string, now time.Time) ModerationResult {
	result := ModerationResult{
		MessageID:       kernel.NewUUID(),
		AuthorID:        author,
		City:            city,
		OriginalMessage: text,
		FilteredMessage: text,
		Action:          ActionApproved,
		Confidence:      1.0,
		Flags:           []string{},
		ModeratedAt:     now,
	}

	if masked, found := maskProfanity(text); found {
		result.FilteredMessage = masked
		result.tighten(ActionFiltered, profanityConfidence, FlagProfanity)
	}

	if reason, confidence, spam := detectSpam(text); spam {
		result.SpamReason = reason
		result.tighten(ActionBlocked, confidence, FlagSpam)
	}

	if flags, confidence := safetyConcerns(result.FilteredMessage); len(flags) > 0 {
		result.tighten(ActionFlaggedForReview, confidence, flags...)
	}

	if countKeywords(strings.ToLower(text), positiveKeywords) >= minPositiveKeywords {
		result.addFlags(FlagHelpful)
	}

	return result
}

func (r *ModerationResult) tighten(action ModerationAction, confidence float64, flags ...string) {
	if actionSeverity[action] > actionSeverity[r.Action] {
		r.Action = action
	}
	r.Confidence = min(r.Confidence, confidence)
	r.addFlags(flags...)
}

func (r *ModerationResult) addFlags(flags ...string) {
	for _, f := range flags {
		if !r.HasFlag(f) {
			r.Flags = append(r.Flags, f)
		}
	}
}

// maskProfanity replaces every case-insensitive occurrence of a listed word
// with asterisks of the same rune length.
func maskProfanity(text string) (string, bool) {
	original := []rune(text)
	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	found := false
	for _, word := range profanity {
		w := []rune(word)
		for i := 0; i+len(w) <= len(lowered); i++ {
			if string(lowered[i:i+len(w)]) != word {
				continue
			}
			found = true
			for j := i; j < i+len(w); j++ {
				original[j] = '*'
				lowered[j] = '*'
			}
		}
	}
	return string(original), found
}

func detectSpam(text string) (SpamReason, float64, bool) {
	runes := []rune(text)
	n := len(runes)

	if n > maxMessageRunes {
		return SpamTooLong, 0.8, true
	}

	repeated, upper := 0, 0
	for i, r := range runes {
		if i > 0 && r == runes[i-1] {
			repeated++
		}
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if float64(repeated) > float64(n)*repeatedCharsRatio {
		return SpamRepeatedChars, 0.7, true
	}
	if n > excessiveCapsMinRunes && float64(upper)/float64(n) > excessiveCapsRatio {
		return SpamExcessiveCaps, 0.6, true
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "http") || strings.Contains(lower, "www.") {
		return SpamContainsURL, 0.9, true
	}
	return "", 1.0, false
}

func safetyConcerns(text string) ([]string, float64) {
	lower := strings.ToLower(text)
	var flags []string
	confidence := 1.0
	for _, category := range safetyCategories {
		if countKeywords(lower, category.keywords) > 0 {
			flags = append(flags, category.flag)
			confidence = min(confidence, category.confidence)
		}
	}
	return flags, confidence
}

func countKeywords(lower string, keywords []string) int {
	count := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			count++
		}
	}
	return count
}
