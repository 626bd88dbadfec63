package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published by the application services.
const (
	TypeUserLogin                = "USER_LOGIN"
	TypeApplicationSubmitted     = "APPLICATION_SUBMITTED"
	TypeApplicationWithdrawn     = "APPLICATION_WITHDRAWN"
	TypeApplicationStatusChanged = "APPLICATION_STATUS_CHANGED"
	TypeSubscriptionActivated    = "SUBSCRIPTION_ACTIVATED"
)

func NewApplicationSubmitted(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeApplicationSubmitted, Data: data, OccurredAt: time.Now()}
}

func NewApplicationWithdrawn(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeApplicationWithdrawn, Data: data, OccurredAt: time.Now()}
}

func NewApplicationStatusChanged(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeApplicationStatusChanged, Data: data, OccurredAt: time.Now()}
}

func NewSubscriptionActivated(data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: TypeSubscriptionActivated, Data: data, OccurredAt: time.Now()}
}
