package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
)

// LogNotifier records notifications in the application log instead of
// delivering them. Used when no messaging backend is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification.
func (n *LogNotifier) Send(ctx context.Context, recipientEmail, subject, body string) error {
	n.logger.Info("Notification",
		zap.String("recipient", recipientEmail),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

var _ port.Notifier = (*LogNotifier)(nil)
