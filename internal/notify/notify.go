// Package notify delivers account emails. SMTP is used when a mail server is
// configured; otherwise messages are only logged.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
)

const welcomeSubject = "Welcome to IssueKeeper"

const welcomeTemplate = `Hi {{.Name}},

Your IssueKeeper account for {{.Email}} is ready.

You can now sign in and start tracking Cloud Security, Reteam Assessment
and VAPT findings.

-- 
IssueKeeper
`

var welcomeTmpl = template.Must(template.New("welcome").Parse(welcomeTemplate))

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Bytes renders the message in RFC 5322 form with CRLF line endings.
func (m Message) Bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return b.Bytes()
}

// WelcomeMessage builds the welcome email for a new account.
func WelcomeMessage(from, to, name string) (Message, error) {
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(from, "\r\n") {
		return Message{}, fmt.Errorf("invalid address")
	}

	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, struct{ Name, Email string }{name, to}); err != nil {
		return Message{}, fmt.Errorf("failed to render welcome email: %w", err)
	}

	return Message{
		From:    from,
		To:      to,
		Subject: welcomeSubject,
		Body:    body.String(),
	}, nil
}

// LogNotifier only logs welcome emails. Used when SMTP is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier создает LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendWelcomeEmail logs the recipient instead of sending mail.
func (n *LogNotifier) SendWelcomeEmail(ctx context.Context, to, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "welcome email skipped: smtp not configured",
		slog.String("to", to))
	return nil
}
