// Package mailer is the fire-and-forget notification sender. Callers
// dispatch in a goroutine and only log failures; no workflow outcome
// ever depends on a mail being delivered.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Sender delivers an HTML email to a list of recipients.
type Sender interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPSender sends through a plain SMTP relay configured from the
// environment.
type SMTPSender struct {
	from     string
	password string
	host     string
	port     string
}

func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		from:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
	}
}

func (s *SMTPSender) Send(to []string, subject, htmlBody string) error {
	if s.host == "" || s.port == "" || s.from == "" {
		return fmt.Errorf("missing SMTP configuration")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := buildMessage(s.from, to, subject, htmlBody)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	return smtp.SendMail(s.host+":"+s.port, auth, s.from, to, msg)
}

// buildMessage renders the headers and HTML body. The To header lists
// every recipient the envelope delivers to.
func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n%s\r\n",
		from, strings.Join(to, ", "), subject, htmlBody,
	))
}

// DefaultRecipient is the fixed procurement notification address.
func DefaultRecipient() string {
	if email := os.Getenv("NOTIFICATION_EMAIL"); email != "" {
		return email
	}
	return "procurement@nexusflow.local"
}
