package worker

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes emails to the log instead of delivering them. Used until
// an SMTP relay is configured for the deployment.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the composed email and reports success.
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info("email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
