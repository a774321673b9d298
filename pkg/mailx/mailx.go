// Package mailx abstracts the outbound email collaborator. The platform only
// sends one kind of message today (the email verification code); failure to
// send never rolls back the surrounding business operation unless the caller
// decides it should.
package mailx

import (
	"context"
	"log/slog"
)

// Sender delivers transactional email.
type Sender interface {
	// SendOTP delivers a verification code to the recipient. The code expires
	// shortly after issuance; the message should say so.
	SendOTP(ctx context.Context, to, userName, code string) error
}

// LogSender writes the message to the log instead of sending it. Used in dev
// and in tests where no email provider is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendOTP(ctx context.Context, to, userName, code string) error {
	s.Logger.Info("otp email (log sender)",
		"to", to,
		"user_name", userName,
		"code", code,
	)
	return nil
}
