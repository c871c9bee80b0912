package service

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends verification mail over SMTP. With no host configured it is
// inert and callers fall back to logging the code, which keeps local
// development working without a mail server.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
}

// Configured reports whether SMTP delivery is possible.
func (m *Mailer) Configured() bool {
	return m != nil && m.Host != "" && m.From != ""
}

// Send delivers a plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.Port),
	}
	if m.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if m.Username != "" && m.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.Username),
			mail.WithPassword(m.Password),
		)
	}

	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
