package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
)

// SMTPConfig описывает подключение к почтовому серверу
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type sendFunc func(ctx context.Context, cfg SMTPConfig, msg Message) error

// SMTPNotifier sends welcome emails over SMTP.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
	send   sendFunc
}

// NewSMTPNotifier создает SMTPNotifier
func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger, send: dialAndSend}
}

// SendWelcomeEmail renders and delivers the welcome email. The context bounds
// the whole SMTP session.
func (n *SMTPNotifier) SendWelcomeEmail(ctx context.Context, to, name string) error {
	msg, err := WelcomeMessage(n.cfg.From, to, name)
	if err != nil {
		return err
	}

	if err := n.send(ctx, n.cfg, msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	n.logger.InfoContext(ctx, "welcome email sent", slog.String("to", to))
	return nil
}

func dialAndSend(ctx context.Context, cfg SMTPConfig, msg Message) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.Addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}

	// закрываем соединение при отмене контекста, чтобы прервать зависший обмен
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
