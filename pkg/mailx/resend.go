package mailx

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender. from is the verified sender address, e.g.
// "SOU2AQ <no-reply@sou2aq.example>".
func NewResendSender(apiKey, from string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mailx: resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("mailx: sender address is required")
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}, nil
}

func (s *ResendSender) SendOTP(ctx context.Context, to, userName, code string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Your verification code",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour verification code is %s. It expires in 90 seconds.\n\n"+
				"If you did not request this, you can ignore this email.\n",
			userName, code,
		),
	})
	if err != nil {
		return fmt.Errorf("mailx: send otp to %s: %w", to, err)
	}
	return nil
}
