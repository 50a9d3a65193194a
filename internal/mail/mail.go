package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// SMTPMailer delivers plain-text mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	opts     Options
	log      *zap.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(opts Options, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		opts:     opts,
		log:      log.Named("mail"),
		sendMail: smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.opts.User != "" {
		auth = smtp.PlainAuth("", m.opts.User, m.opts.Password, m.opts.Host)
	}
	msg := buildMessage(m.opts.From, to, subject, body, time.Now())
	addr := net.JoinHostPort(m.opts.Host, m.opts.Port)
	if err := m.sendMail(addr, auth, m.opts.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.log.Debug("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return b.Bytes()
}

// Noop stands in for SMTP when no relay is configured; it only logs.
type Noop struct {
	log *zap.Logger
}

func NewNoop(log *zap.Logger) *Noop {
	return &Noop{log: log.Named("mail")}
}

func (n *Noop) Send(_ context.Context, to, subject, _ string) error {
	n.log.Info("SMTP not configured, dropping mail", zap.String("to", to), zap.String("subject", subject))
	return nil
}
