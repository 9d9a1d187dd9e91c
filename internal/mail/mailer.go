// Package mail delivers notification emails. Delivery is best-effort: the
// operations that trigger an email never fail because the email did.
package mail

import (
	"os"
	"strconv"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/gomail.v2"
)

// Mailer is the contract a notification backend has to fulfil.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an SMTP relay configured via environment
// variables (EMAIL_HOST, EMAIL_PORT, EMAIL_USER, EMAIL_PASS).
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
}

// NewSMTPMailer builds an SMTPMailer from environment variables. Returns nil
// when EMAIL_HOST is not set so callers can skip notifications entirely.
func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("EMAIL_HOST")
	if host == "" {
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if err != nil {
		port = 587
	}

	return &SMTPMailer{
		host: host,
		port: port,
		user: os.Getenv("EMAIL_USER"),
		pass: os.Getenv("EMAIL_PASS"),
	}
}

// Send delivers a single HTML email.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)

	return d.DialAndSend(msg)
}
