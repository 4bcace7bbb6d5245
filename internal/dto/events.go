package dto

const (
	EventUserCreated               = "user.created"
	EventUserModificationRequested = "user.modification_requested"
	EventUserDeletionRequested     = "user.deletion_requested"
)

// UserEvent is handed to the notification dispatcher after a confirmation
// token has been issued. Token holds the plaintext value; bus-backed
// dispatchers must never put it on the wire.
type UserEvent struct {
	Name           string `json:"name"`
	UserID         uint   `json:"user_id"`
	Email          string `json:"email"`
	TokenType      string `json:"token_type"`
	ModificationID uint   `json:"modification_id,omitempty"`
	Token          string `json:"-"`
}

// BusUserEvent is the shape consumed from the users topic.
type BusUserEvent struct {
	Email          string `json:"email"`
	TokenType      string `json:"token_type"`
	ModificationID uint   `json:"modification_id,omitempty"`
}
