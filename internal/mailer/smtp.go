package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig はSMTP送信の設定。
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	Sender   string
}

// SMTPMailer はnet/smtp経由でメールを送信するMailer実装。
// STARTTLS対応のサブミッションポート（587）での利用を想定している。
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// Send はSMTPサーバー経由でメールを送信する。
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Server)
	}

	msg := buildMessage(m.config.Sender, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.config.Sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

// buildMessage はRFC 5322形式のメッセージを組み立てる。
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// compile-time interface check
var _ Mailer = (*SMTPMailer)(nil)
