package events

import "time"

// Event types published after successful mutating operations.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEvent is the audit record put on the broker. Consumers must treat it
// as informational; the write it describes has already been committed.
type UserEvent struct {
	Type   string    `json:"type"`
	UserID int64     `json:"user_id"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
}

func NewUserEvent(typ string, userID int64, name string) UserEvent {
	return UserEvent{Type: typ, UserID: userID, Name: name, At: time.Now().UTC()}
}
