// Package smsvendor provides pluggable ports.SmsSender implementations. LogSender is the dev/degraded-mode default;
// a real vendor integration (Twilio, MSG91, etc.) implements the same interface.
package smsvendor

import (
	"context"
	"log/slog"
)

// LogSender records each send in structured logs instead of an SMS gateway;
// only the recipient is logged, the message text is not.
// Used in dev/degraded mode and by tests; a production deployment wires a
// real vendor client behind the same ports.SmsSender interface.
type LogSender struct{}

func NewLogSender() LogSender { return LogSender{} }

func (LogSender) Send(ctx context.Context, toMobile, message string) error {
	slog.Default().InfoContext(ctx, "sms dispatched",
		"service", "credit-engine",
		"module", "smsvendor",
		"layer", "adapter",
		"operation", "sms_send",
		"outcome", "degraded",
		"to", toMobile,
	)
	return nil
}
