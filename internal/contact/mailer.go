package contact

import (
	"context"
	"time"

	"gopkg.in/gomail.v2"
)

// Mail is one outbound message, already rendered.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer is the external mail-relay collaborator. Send must respect ctx:
// the dispatcher bounds every send with a timeout and treats expiry as
// delivery failure.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// SMTPMailer relays through a plain SMTP endpoint via gomail. gomail's
// DialAndSend has no context support, so the dial+send runs in a goroutine
// and the caller's deadline wins the race.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The goroutine finishes on its own; the buffered channel lets it exit.
		return ctx.Err()
	}
}

// sendTimeout guards against a wedged relay even when the caller passed an
// unbounded context.
const defaultSendTimeout = 10 * time.Second
