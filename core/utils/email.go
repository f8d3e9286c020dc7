package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"bandmate-api/core/config"
)

// EmailMessage is a single outgoing email
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// GetEmailConfig returns the SMTP settings from the loaded config
func GetEmailConfig() *config.EmailConfig {
	cfg, ok := config.GetSafe()
	if !ok {
		return &config.EmailConfig{}
	}
	return &cfg.Email
}

// SendEmailTLS delivers a message over SMTP with an explicit TLS connection.
func SendEmailTLS(conf config.EmailConfig, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	addr := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	auth := smtp.PlainAuth("", conf.Username, conf.Password, conf.Host)

	contentType := "text/plain; charset=\"utf-8\""
	if msg.IsHTML {
		contentType = "text/html; charset=\"utf-8\""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", conf.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n", contentType)
	b.WriteString(msg.Body)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: conf.Host})
	if err != nil {
		// Port 587 servers expect STARTTLS instead of implicit TLS
		return smtp.SendMail(addr, auth, conf.From, msg.To, []byte(b.String()))
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, conf.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return err
	}
	if err = client.Mail(conf.From); err != nil {
		return err
	}
	for _, to := range msg.To {
		if err = client.Rcpt(to); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write([]byte(b.String())); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
