package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/moneybridge/moneybridge/config"
)

// MailMessage is a rendered plain text email.
type MailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Bytes renders the message with RFC 5322 headers.
func (m *MailMessage) Bytes(fromName string) []byte {
	fromHeader := m.From
	if fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", fromName), m.From)
	}
	var msg strings.Builder
	// fixed order keeps the output stable
	msg.WriteString("From: " + fromHeader + "\r\n")
	msg.WriteString("To: " + m.To + "\r\n")
	msg.WriteString("Subject: " + mime.BEncoding.Encode("UTF-8", m.Subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(m.Body)
	return []byte(msg.String())
}

// Mailer creates and delivers notification emails.
type Mailer interface {
	CreateMessage(to, subject, body string) (*MailMessage, error)
	Send(msg *MailMessage) error
}

// SMTPMailer sends mail synchronously over SMTP, upgrading with STARTTLS when enabled.
type SMTPMailer struct {
	cfg config.AppConfig
}

func NewSMTPMailer(cfg config.AppConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) CreateMessage(to, subject, body string) (*MailMessage, error) {
	if m.cfg.SMTPFrom == "" {
		return nil, errors.New("smtp sender not configured")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	return &MailMessage{From: m.cfg.SMTPFrom, To: to, Subject: subject, Body: body}, nil
}

func (m *SMTPMailer) Send(msg *MailMessage) error {
	cfg := m.cfg
	if cfg.SMTPHost == "" {
		return errors.New("smtp not configured")
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	raw := msg.Bytes(cfg.SMTPFromName)

	if !cfg.SMTPTLS {
		// Plain SMTP without TLS (not recommended)
		return smtp.SendMail(addr, auth, msg.From, []string{msg.To}, raw)
	}

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return err
	}
	// ensure we don't hang forever
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
	c, err := smtp.NewClient(conn, cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.SMTPHost}); err != nil {
			return err
		}
	}
	if cfg.SMTPUsername != "" {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(msg.From); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(raw); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}
