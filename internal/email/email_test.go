package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPService_SendPasswordReset(t *testing.T) {
	d := &fakeDialer{}
	svc := &SMTPService{
		dialer:   d,
		from:     "clinic@example.com",
		resetURL: "https://app.example.com/reset?lang=pt",
		log:      logger.Nop(),
	}

	exp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "abc123", exp))
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err := d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	body := buf.String()

	assert.Contains(t, body, "ana@example.com")
	assert.Contains(t, body, "Reset your password")
	assert.Contains(t, body, "abc123")
	assert.Equal(t, []string{"clinic@example.com"}, d.sent[0].GetHeader("From"))
}

func TestSMTPService_DialError(t *testing.T) {
	svc := &SMTPService{dialer: &fakeDialer{err: errors.New("refused")}, log: logger.Nop()}

	err := svc.SendPasswordReset(context.Background(), "a@example.com", "A", "t", time.Now())
	assert.Error(t, err)
}

func TestNewService_FallsBackToLog(t *testing.T) {
	svc := NewService(config.MailConfig{}, logger.Nop())
	_, ok := svc.(*LogService)
	assert.True(t, ok)
	assert.NoError(t, svc.SendPasswordReset(context.Background(), "a@example.com", "A", "t", time.Now()))

	svc = NewService(config.MailConfig{Host: "smtp.example.com", Port: 587}, logger.Nop())
	_, ok = svc.(*SMTPService)
	assert.True(t, ok)
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "https://x.test/reset?lang=pt&token=a%2Bb", resetLink("https://x.test/reset?lang=pt", "a+b"))
}
