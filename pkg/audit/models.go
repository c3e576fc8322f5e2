// Package audit defines the events emitted from domain logic. Events are
// transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"

	id "tandem/pkg/domain"
)

// Event captures a key action taken by or on a couple.
type Event struct {
	Timestamp time.Time   `json:"timestamp"`
	CoupleID  id.CoupleID `json:"couple_id"`
	Partner   id.Partner  `json:"partner,omitempty"`
	Action    string      `json:"action"`
	Subject   string      `json:"subject,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Action names. Kept as a flat namespace so downstream consumers can route
// on prefix.
const (
	EventIntentExpressed    = "intent_expressed"
	EventIntentRetracted    = "intent_retracted"
	EventIntentCapReached   = "intent_cap_reached"
	EventActionCreated      = "confirmation_created"
	EventActionRetracted    = "confirmation_retracted"
	EventActionConfirmed    = "confirmation_confirmed"
	EventActionExpired      = "confirmation_expired"
	EventTokenRedeemed      = "founding_token_redeemed"
	EventAccessActivated    = "founding_access_activated"
	EventAccessAcknowledged = "founding_access_acknowledged"
	EventResponsePosted     = "lounge_response_posted"
	EventPresencePosted     = "place_presence_posted"
	EventCoupleRegistered   = "couple_registered"
)

// Publisher emits audit events for security-relevant operations.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCouple(ctx context.Context, coupleID id.CoupleID) ([]Event, error)
}
