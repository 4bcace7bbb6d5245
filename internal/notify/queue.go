package notify

import (
	"fmt"

	"github.com/SundayYogurt/site_service/internal/dto"
	"github.com/SundayYogurt/site_service/internal/interfaces"
	"github.com/google/uuid"
)

// QueueNotifier publishes user events on the users topic. The plaintext
// confirmation token is deliberately left off the message: the bus is not a
// secure delivery channel, the downstream consumer works from the metadata
// alone.
type QueueNotifier struct {
	producer interfaces.ProducerHandler
	env      string
}

func NewQueueNotifier(producer interfaces.ProducerHandler, env string) *QueueNotifier {
	return &QueueNotifier{producer: producer, env: env}
}

func (n *QueueNotifier) Notify(event dto.UserEvent) error {
	headers := map[string]string{
		"env":        n.env,
		"event_id":   uuid.NewString(),
		"token_type": event.TokenType,
	}
	if event.ModificationID != 0 {
		headers["modification_id"] = fmt.Sprintf("%d", event.ModificationID)
	}

	return n.producer.PublishMessage([]byte(event.Name), []byte(event.Email), headers)
}
