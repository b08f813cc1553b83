// Package notify delivers one-time codes to users through pluggable
// channels.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// CodeSender delivers a one-time code to the identified recipient. A
// delivery failure must surface as an error so callers never assume a code
// reached the user.
type CodeSender interface {
	SendCode(ctx context.Context, recipient, code string) error
}

// LogSender records that a code was issued without delivering it anywhere.
// Used in development and as the fallback when no delivery URL is
// configured. The code itself is never logged.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendCode implements CodeSender.
func (s *LogSender) SendCode(ctx context.Context, recipient, code string) error {
	s.logger.Info("one-time code issued", zap.String("recipient", recipient))
	return nil
}
