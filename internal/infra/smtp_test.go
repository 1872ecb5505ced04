package infra

import (
	"errors"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
)

func TestMailer_Enabled(t *testing.T) {
	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
	assert.False(t, NewMailer(&config.Config{}).Enabled())
	assert.True(t, NewMailer(&config.Config{SMTPHost: "smtp.example.id", SMTPPort: 587}).Enabled())

	err := NewMailer(&config.Config{}).SendReceipt("a@b.id", "HF", "TX-1", "")
	assert.Error(t, err)
}

func TestMailer_SendReceipt(t *testing.T) {
	pdfPath := filepath.Join(t.TempDir(), "receipt_TX-1.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.3"), 0644))

	m := NewMailer(&config.Config{SMTPHost: "smtp.example.id", SMTPPort: 587, SMTPUser: "kasir@hf.id"})
	var sent *email.Email
	var addr string
	m.send = func(e *email.Email, a string, _ smtp.Auth) error {
		sent, addr = e, a
		return nil
	}

	require.NoError(t, m.SendReceipt("budi@mail.id", "HF Frozen Food", "TX-1", pdfPath))
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.id:587", addr)
	assert.Equal(t, []string{"budi@mail.id"}, sent.To)
	assert.Equal(t, "kasir@hf.id", sent.From)
	assert.Contains(t, sent.Subject, "TX-1")
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "receipt_TX-1.pdf", sent.Attachments[0].Filename)

	assert.Error(t, m.SendReceipt("budi@mail.id", "HF", "TX-1", filepath.Join(t.TempDir(), "missing.pdf")))
}

func TestMailer_BreakerOpensOnRelayFailures(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.example.id", SMTPPort: 587})
	calls := 0
	m.send = func(*email.Email, string, smtp.Auth) error {
		calls++
		return errors.New("dial tcp: timeout")
	}
	for i := 0; i < DefaultCBConfig().FailureThreshold; i++ {
		assert.Error(t, m.SendReceipt("a@b.id", "HF", "TX-1", ""))
	}
	assert.Equal(t, CBOpen, m.BreakerState())
	assert.ErrorIs(t, m.SendReceipt("a@b.id", "HF", "TX-1", ""), ErrCircuitOpen)
	assert.Equal(t, DefaultCBConfig().FailureThreshold, calls)
}
