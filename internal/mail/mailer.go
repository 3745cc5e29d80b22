// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/lamjungdrops/storefront/internal/config"
)

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTML     string
	Category string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders the account lifecycle emails and hands them to a Sender.
type Mailer struct {
	sender      Sender
	companyName string
}

func NewMailer(sender Sender, companyName string) *Mailer {
	return &Mailer{sender: sender, companyName: companyName}
}

// New builds the mailer selected by cfg.Provider.
func New(cfg config.MailConfig, companyName string, logger *slog.Logger) (*Mailer, error) {
	switch cfg.Provider {
	case "", ProviderLog:
		return NewMailer(NewLogSender(logger), companyName), nil
	case ProviderHTTP:
		return NewMailer(NewHTTPSender(cfg), companyName), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

const (
	ProviderLog  = "log"
	ProviderHTTP = "http"
)

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, code string) error {
	err := m.sender.Send(ctx, Message{
		To:       to,
		Subject:  "Verify your email",
		HTML:     fmt.Sprintf(verificationTemplate, html.EscapeString(code)),
		Category: "Email Verification",
	})
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (m *Mailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if name == "" {
		name = "there"
	}

	err := m.sender.Send(ctx, Message{
		To:      to,
		Subject: "Welcome to " + m.companyName,
		HTML: fmt.Sprintf(
			welcomeTemplate,
			html.EscapeString(name),
			html.EscapeString(m.companyName),
		),
		Category: "Welcome",
	})
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	err := m.sender.Send(ctx, Message{
		To:       to,
		Subject:  "Reset your password",
		HTML:     fmt.Sprintf(resetRequestTemplate, html.EscapeString(resetURL)),
		Category: "Password Reset",
	})
	if err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func (m *Mailer) SendResetSuccessEmail(ctx context.Context, to string) error {
	err := m.sender.Send(ctx, Message{
		To:       to,
		Subject:  "Password reset successful",
		HTML:     resetSuccessTemplate,
		Category: "Password Reset",
	})
	if err != nil {
		return fmt.Errorf("send reset success email: %w", err)
	}
	return nil
}

const (
	verificationTemplate = `<p>Thanks for signing up. Your verification code is:</p>
<p><strong>%s</strong></p>
<p>The code expires in 24 hours.</p>`

	welcomeTemplate = `<p>Hi %s,</p>
<p>Welcome to %s.</p>`

	resetRequestTemplate = `<p>We received a request to reset your password.</p>
<p><a href="%s">Reset password</a></p>
<p>The link expires in 1 hour. If you did not ask for this, ignore this email.</p>`

	resetSuccessTemplate = `<p>Your password has been reset.</p>
<p>If you did not do this, contact support right away.</p>`
)
