// Package mailer delivers bulk email over SMTP. All recipients of one
// job ride in a single message as blind carbon copies with a fixed
// sender, so one bad address fails the whole send; there is no
// per-recipient retry.
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Sender delivers one message to a set of BCC recipients.
type Sender interface {
	Send(recipients []string, subject, body string) error
}

// SMTPSender is the production Sender. Connection parameters come from
// the application config; auth is skipped when User is empty (local
// relays).
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Send delivers subject/body to every recipient in one SMTP
// transaction. Recipients appear only in the envelope, never in the
// headers, which is what makes this a BCC send.
func (s *SMTPSender) Send(recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	msg := buildMessage(s.From, subject, body)
	addr := s.Host + ":" + s.Port
	if err := smtp.SendMail(addr, auth, s.From, recipients, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// buildMessage assembles the RFC 5322 message. The subject is Q-encoded
// so Japanese text survives transport.
func buildMessage(from, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: undisclosed-recipients:;\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
