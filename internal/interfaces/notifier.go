package interfaces

import "github.com/SundayYogurt/site_service/internal/dto"

// Notifier delivers the out-of-band confirmation for a staged user change.
// The engine issues the token and link itself before dispatching, so every
// implementation starts from the same persisted state.
type Notifier interface {
	Notify(event dto.UserEvent) error
}
