package notify

import "fmt"

// Kind selects the notification template.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindReminder     Kind = "reminder"
)

// Snapshot carries the reservation details a notification renders.
// It is copied out of the persisted record so sending never holds a
// transaction open.
type Snapshot struct {
	ReservationID uint
	Username      string
	RoomName      string
	Date          string
	StartTime     string
	EndTime       string
}

// Notifier dispatches booking notifications. Failures are non-fatal to
// the operation that triggered them.
type Notifier interface {
	Send(kind Kind, recipientEmail string, snap Snapshot) error
}

// NotifyError reports a failed notification dispatch.
type NotifyError struct {
	Kind      Kind
	Recipient string
	Err       error
}

// Error implements the error interface.
func (e *NotifyError) Error() string {
	return fmt.Sprintf("failed to send %s notification to %s: %v", e.Kind, e.Recipient, e.Err)
}

// Unwrap returns the underlying send error.
func (e *NotifyError) Unwrap() error {
	return e.Err
}
