package notify

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"Backend-Inspectrack/src/config"
)

type MailSender interface {
	Send(to, subject, html string) error
}

type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NewSMTPSender fails when any SMTP setting is missing so the worker refuses
// to start instead of silently dropping mail.
func NewSMTPSender(cfg config.Config) (*SMTPSender, error) {
	missing := []string{}
	if cfg.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if cfg.SMTPPort == 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if cfg.SMTPUser == "" {
		missing = append(missing, "SMTP_USER")
	}
	if cfg.SMTPPass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if cfg.SMTPFrom == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing SMTP env: %v", strings.Join(missing, ", "))
	}
	return &SMTPSender{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom}, nil
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
