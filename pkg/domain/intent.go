package domain

import dErrors "tandem/pkg/domain-errors"

// Intent labels why a couple expressed interest in a candidate. The tag is
// attached to the ledger entry; it carries no weight in gating beyond the
// entry's existence.
type Intent string

const (
	IntentSocial       Intent = "social"
	IntentConversation Intent = "conversation"
	IntentMeeting      Intent = "meeting"
)

var validIntents = map[Intent]bool{
	IntentSocial:       true,
	IntentConversation: true,
	IntentMeeting:      true,
}

// ParseIntent constructs an Intent from external input.
func ParseIntent(s string) (Intent, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "intent cannot be empty")
	}
	in := Intent(s)
	if !validIntents[in] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid intent")
	}
	return in, nil
}

// IsValid checks if the intent is one of the supported enum values.
func (i Intent) IsValid() bool {
	return validIntents[i]
}

// String returns the string representation of the intent.
func (i Intent) String() string {
	return string(i)
}
