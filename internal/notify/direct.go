package notify

import (
	"log"

	"github.com/SundayYogurt/site_service/internal/dto"
)

// DirectNotifier is the development stand-in for the bus: the token and its
// link are already persisted by the engine, so all that is left of the
// out-of-band delivery is handing the plaintext token to the developer.
type DirectNotifier struct{}

func NewDirectNotifier() *DirectNotifier {
	return &DirectNotifier{}
}

func (n *DirectNotifier) Notify(event dto.UserEvent) error {
	// confirm on the client with ?token=TOKEN&email=EMAIL&userid=ID
	log.Printf("[notify] %s user_id=%d email=%s token=%s", event.Name, event.UserID, event.Email, event.Token)
	return nil
}
