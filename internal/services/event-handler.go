package services

import (
	"encoding/json"
	"log"
)

// UserEventHandler is the downstream consumer of the users topic. Mail
// delivery itself lives outside this service; the handler decodes the event
// and logs the hand-off so the pipeline is observable end to end.
type UserEventHandler struct{}

func NewUserEventHandler() *UserEventHandler {
	return &UserEventHandler{}
}

type busEvent struct {
	Email string `json:"email"`
}

func (h *UserEventHandler) HandleMessage(message string) error {
	var event busEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		// messages published by this service carry the bare email as value
		event.Email = message
	}

	log.Printf("user event received: email=%s", event.Email)
	return nil
}
