package email

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"
)

// PostmarkSender delivers through the Postmark transactional stream.
type PostmarkSender struct {
	api     *postmark.Client
	from    string
	replyTo string
}

// PostmarkOption tweaks the underlying client, for example its HTTP client in tests.
type PostmarkOption func(*postmark.Client)

// WithPostmarkBaseURL points the client at another API host, such as a local stub.
func WithPostmarkBaseURL(url string) PostmarkOption {
	return func(c *postmark.Client) { c.BaseURL = url }
}

// NewPostmarkClient needs both Postmark tokens and a valid sender address.
// Replies go to SupportEmail, or to the sender when it is unset.
func NewPostmarkClient(cfg Config, opts ...PostmarkOption) (*PostmarkSender, error) {
	switch {
	case cfg.PostmarkServerToken == "" || cfg.PostmarkAccountToken == "":
		return nil, fmt.Errorf("%w: postmark server and account tokens are required", ErrInvalidConfig)
	case !validAddress(cfg.SenderEmail):
		return nil, fmt.Errorf("%w: sender %q is not an email address", ErrInvalidConfig, cfg.SenderEmail)
	}

	api := postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	for _, opt := range opts {
		opt(api)
	}
	replyTo := cfg.SupportEmail
	if replyTo == "" {
		replyTo = cfg.SenderEmail
	}
	return &PostmarkSender{api: api, from: cfg.SenderEmail, replyTo: replyTo}, nil
}

// SendEmail sends one HTML message. A non-zero Postmark code is an error.
func (s *PostmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	res, err := s.api.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.replyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}
	// Postmark reports rejected messages with a 200 and a non-zero code.
	if res.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark code %d: %s", ErrFailedToSendEmail, res.ErrorCode, res.Message)
	}
	return nil
}

func validAddress(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
