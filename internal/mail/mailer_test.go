// AngelaMos | 2026
// mailer_test.go

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamjungdrops/storefront/internal/config"
)

type captureSender struct {
	sent []Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestMailerTemplates(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(sender, "Lamjung Drops")
	ctx := context.Background()

	require.NoError(t, m.SendVerificationEmail(ctx, "a@x.io", "482913"))
	require.NoError(t, m.SendWelcomeEmail(ctx, "a@x.io", "<b>Sita</b>"))
	require.NoError(t, m.SendWelcomeEmail(ctx, "b@x.io", ""))
	require.NoError(t, m.SendPasswordResetEmail(ctx, "a@x.io", "http://localhost:5173/reset-password/tok"))
	require.NoError(t, m.SendResetSuccessEmail(ctx, "a@x.io"))

	require.Len(t, sender.sent, 5)
	assert.Contains(t, sender.sent[0].HTML, "482913")
	assert.Equal(t, "Welcome to Lamjung Drops", sender.sent[1].Subject)
	assert.Contains(t, sender.sent[1].HTML, "&lt;b&gt;Sita&lt;/b&gt;")
	assert.NotContains(t, sender.sent[1].HTML, "<b>Sita</b>")
	assert.Contains(t, sender.sent[2].HTML, "Hi there")
	assert.Contains(t, sender.sent[3].HTML, `href="http://localhost:5173/reset-password/tok"`)
	assert.Equal(t, "Password Reset", sender.sent[4].Category)
}

func TestMailerWrapsSenderError(t *testing.T) {
	down := errors.New("smtp down")
	m := NewMailer(&captureSender{err: down}, "Lamjung Drops")

	err := m.SendVerificationEmail(context.Background(), "a@x.io", "1")

	assert.ErrorIs(t, err, down)
}

func TestHTTPSender(t *testing.T) {
	var (
		gotAuth string
		gotBody sendRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewHTTPSender(config.MailConfig{
		APIURL:      srv.URL,
		APIToken:    "secret",
		SenderEmail: "hello@lamjungdrops.com",
		SenderName:  "Lamjung Drops",
	})

	err := sender.Send(context.Background(), Message{
		To:       "a@x.io",
		Subject:  "Verify your email",
		HTML:     "<p>1</p>",
		Category: "Email Verification",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "hello@lamjungdrops.com", gotBody.From.Email)
	require.Len(t, gotBody.To, 1)
	assert.Equal(t, "a@x.io", gotBody.To[0].Email)
	assert.Equal(t, "Email Verification", gotBody.Category)
}

func TestHTTPSenderRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sender := NewHTTPSender(config.MailConfig{APIURL: srv.URL})

	err := sender.Send(context.Background(), Message{To: "a@x.io"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), Message{To: "a@x.io", Subject: "hi"}))

	assert.Contains(t, buf.String(), "to=a@x.io")
	assert.Contains(t, buf.String(), "subject=hi")
}

func TestNewSelectsProvider(t *testing.T) {
	m, err := New(config.MailConfig{}, "Lamjung Drops", nil)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, m.sender)

	m, err = New(config.MailConfig{Provider: ProviderHTTP}, "Lamjung Drops", nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPSender{}, m.sender)

	_, err = New(config.MailConfig{Provider: "pigeon"}, "Lamjung Drops", nil)
	assert.Error(t, err)
}
