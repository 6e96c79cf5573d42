package mailer

// Mailer delivers plain-text email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// NoopMailer discards every message. Used when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to []string, subject, body string) error { return nil }
