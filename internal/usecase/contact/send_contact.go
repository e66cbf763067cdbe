package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/ratelimit"
)

const (
	MaxMessagesPerIP = 3
	MessageWindow    = time.Hour

	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

var (
	ErrNotConfigured = errors.New("contact form is not configured")
	ErrSendFailed    = errors.New("could not send your message, please try again later")
)

// ValidationError is a user-facing rejection of the form input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RateLimitedError is returned once an IP sent too many messages.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return "too many messages, please try again later"
}

type Options struct {
	From string
	To   string
}

type contactSenderSrv struct {
	mailer  port.Mailer
	limiter *ratelimit.Limiter
	opts    Options
}

// compile-time check: *contactSenderSrv must satisfy port.ContactSender
var _ port.ContactSender = (*contactSenderSrv)(nil)

func NewContactSender(mailer port.Mailer, limiter *ratelimit.Limiter, opts Options) port.ContactSender {
	return &contactSenderSrv{mailer: mailer, limiter: limiter, opts: opts}
}

// NewContactLimiter returns the limiter applied to contact messages per client IP.
func NewContactLimiter(store port.CounterStore) *ratelimit.Limiter {
	return ratelimit.NewLimiter(store, "contact", MaxMessagesPerIP, MessageWindow)
}

func (s *contactSenderSrv) SendContact(ctx context.Context, in port.ContactInput) error {
	if s.mailer == nil || s.opts.To == "" {
		return ErrNotConfigured
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validateInput(in); err != nil {
		return err
	}

	res, err := s.limiter.Allow(ctx, in.ClientIP)
	if err != nil {
		logger.Warnf(ctx, "contact rate limit unavailable: %v", err)
	} else if !res.Allowed {
		logger.Warnf(ctx, "⛔  contact form rate limited for %s", in.ClientIP)
		return &RateLimitedError{RetryAfter: res.RetryAfter}
	}

	subject := in.Subject
	if subject == "" {
		subject = "New message from " + in.Name
	}
	id, err := s.mailer.Send(ctx, port.Email{
		From:    s.opts.From,
		To:      []string{s.opts.To},
		ReplyTo: in.Email,
		Subject: "[Contact] " + subject,
		HTML:    renderHTML(in),
		Text:    renderText(in),
	})
	if err != nil {
		logger.Errorf(ctx, "❌  failed to send contact email: %v", err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	logger.Infof(ctx, "✅  contact message from %s sent (%s)", in.Email, id)
	return nil
}

func validateInput(in port.ContactInput) error {
	switch {
	case in.Name == "":
		return &ValidationError{Msg: "Name is required"}
	case len(in.Name) > MaxNameLength:
		return &ValidationError{Msg: fmt.Sprintf("Name must be at most %d characters", MaxNameLength)}
	case in.Email == "":
		return &ValidationError{Msg: "Email is required"}
	case !validEmail(in.Email):
		return &ValidationError{Msg: "Email is invalid"}
	case len(in.Subject) > MaxSubjectLength:
		return &ValidationError{Msg: fmt.Sprintf("Subject must be at most %d characters", MaxSubjectLength)}
	case in.Message == "":
		return &ValidationError{Msg: "Message is required"}
	case len(in.Message) > MaxMessageLength:
		return &ValidationError{Msg: fmt.Sprintf("Message must be at most %d characters", MaxMessageLength)}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func renderHTML(in port.ContactInput) string {
	var b strings.Builder
	b.WriteString("<h2>New contact message</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(in.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(in.Email))
	if in.Subject != "" {
		fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(in.Subject))
	}
	msg := strings.ReplaceAll(html.EscapeString(in.Message), "\n", "<br>")
	fmt.Fprintf(&b, "<p>%s</p>", msg)
	return b.String()
}

func renderText(in port.ContactInput) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\n\n%s\n", in.Name, in.Email, in.Subject, in.Message)
}
