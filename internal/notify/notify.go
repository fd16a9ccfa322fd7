package notify

import "github.com/pkg/errors"

// ErrUnauthorized means the delivery credential was missing or rejected.
var ErrUnauthorized = errors.New("notification credential rejected")

// Notifier delivers one plain-text message to the configured recipient.
// One outbound call per message, no queuing and no retries.
type Notifier interface {
	Send(message string) error
	Name() string
}
