package mailer

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv builds a mailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD and MAIL_FROM.
func NewFromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &Mailer{
		dialer: gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:   os.Getenv("MAIL_FROM"),
	}
}

// Send delivers a single HTML mail.
func (m *Mailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return m.dialer.DialAndSend(msg)
}

// SendAsync delivers in the background. A failed delivery is logged and
// never blocks the response already sent to the user.
func (m *Mailer) SendAsync(to, subject, html string) {
	go func() {
		if err := m.Send(to, subject, html); err != nil {
			log.Printf("❌ Failed to send mail to %s: %v", to, err)
		}
	}()
}
