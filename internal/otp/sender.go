package otp

import (
	"context"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/logger"
)

// LogSender writes the SMS to the application log instead of a gateway. Used
// in development and in environments without SMS credentials.
type LogSender struct {
	logg *logger.Logger
}

// NewLogSender builds the log-backed sender.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

// Send logs the message payload.
func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"phone":   maskPhone(phone),
			"message": message,
		})
		s.logg.Info(ctx, "sms send (log sender)")
	}
	return nil
}
