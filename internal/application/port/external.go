package port

import "context"

// Notifier delivers approval/rejection messages. Implementations must be
// safe for concurrent use. Delivery failures are the caller's to log; no
// workflow transition ever depends on a notification succeeding.
type Notifier interface {
	Send(ctx context.Context, recipientEmail, subject, body string) error
}
