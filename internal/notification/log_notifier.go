// Package notification tells staff about pipeline changes that concern them.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
)

// LogNotifier writes notifications to the application log in place of a
// delivery channel such as mail or chat
type LogNotifier struct {
	logger *zap.Logger
}

var _ port.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message
func (n *LogNotifier) Notify(_ context.Context, recipientID, subject, body string) error {
	n.logger.Info("Notification",
		zap.String("recipient", recipientID),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
