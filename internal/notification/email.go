package notification

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"

	"github.com/greenroots/greenroots-backend/config"
)

// Mailer sends one HTML message.
type Mailer interface {
	Send(to []string, subject string, body Message) error
}

// EmailSender delivers mail over SMTP with STARTTLS.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
	}
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f3b2c;">
  <h2 style="color: #2f7d4a;">{{.Heading}}</h2>
  <p>Hi {{.Name}},</p>
  {{range .Lines}}<p>{{.}}</p>
  {{end}}<p>With gratitude,<br>The GreenRoots team</p>
</body>
</html>`))

// Message is the content of a confirmation email.
type Message struct {
	Heading string
	Name    string
	Lines   []string
}

// Render builds the HTML body.
func (m Message) Render() (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *EmailSender) buildMessage(to []string, subject string, msg Message) ([]byte, error) {
	body, err := msg.Render()
	if err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", e.FromName, e.FromAddr)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String()), nil
}

func (e *EmailSender) Send(to []string, subject string, msg Message) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	message, err := e.buildMessage(to, subject, msg)
	if err != nil {
		return err
	}
	if err := e.deliver(to, message); err != nil {
		log.Printf("❌ Email to %v failed: %v", to, err)
		return err
	}
	log.Printf("📧 Email sent to %v: %s", to, subject)
	return nil
}

func (e *EmailSender) deliver(to []string, message []byte) error {
	client, err := smtp.Dial(net.JoinHostPort(e.Host, e.Port))
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: e.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if e.Username != "" {
		if err = client.Auth(smtp.PlainAuth("", e.Username, e.Password, e.Host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return client.Quit()
}

// LogMailer stands in when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(to []string, subject string, _ Message) error {
	log.Printf("ℹ️ SMTP not configured, skipping email to %v: %s", to, subject)
	return nil
}

// NewMailer picks SMTP when it is configured.
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.SMTPConfigured() {
		return LogMailer{}
	}
	return NewEmailSender(cfg)
}
