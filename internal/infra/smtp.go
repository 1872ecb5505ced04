package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
// Sends go through a circuit breaker so a dead SMTP server fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	breaker  *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// BreakerState exposes the SMTP circuit state for health reporting.
func (m *Mailer) BreakerState() CBState { return m.breaker.State() }

// SendReceipt mails the receipt PDF at pdfPath to the customer.
func (m *Mailer) SendReceipt(to, storeName, transactionID, pdfPath string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: SMTP not configured")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Struk belanja %s - %s", storeName, transactionID)
	e.Text = []byte(fmt.Sprintf("Terima kasih telah berbelanja di %s.\nStruk transaksi %s terlampir.\n", storeName, transactionID))

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.breaker.Execute(func() error {
		return m.send(e, m.addr, auth)
	})
}
