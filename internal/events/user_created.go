package events

import "time"

const UserLifecycleTopic = "campus.user.lifecycle.v1"

const UserCreatedEventType = "user_created"

type UserCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id"`
	UserType   string    `json:"user_type"`
	Department string    `json:"department"`
	OccurredAt time.Time `json:"occurred_at"`
}
