package port

import "context"

// Notifier delivers a short message to a staff member. Delivery is best-effort
// and happens outside the workflow transaction.
type Notifier interface {
	Notify(ctx context.Context, recipientID, subject, body string) error
}
