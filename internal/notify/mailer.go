package notify

import (
	"fmt"

	"github.com/sardarhouse/guesthouse/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers the confirmation email with the receipt download link.
type Mailer interface {
	SendConfirmation(toEmail, guestName, downloadURL string) error
}

type SMTPMailer struct {
	cfg          config.MailConfig
	propertyName string
}

func NewSMTPMailer(cfg config.MailConfig, propertyName string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, propertyName: propertyName}
}

func (m *SMTPMailer) SendConfirmation(toEmail, guestName, downloadURL string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.propertyName)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your Booking Confirmation")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Thank you for booking with %s!</p>
		<p>You can download your booking confirmation here:</p>
		<a href="%s" target="_blank">Download Your Receipt (PDF)</a>
		<br/><br/>
		<p>We look forward to hosting you!</p>`,
		guestName, m.propertyName, downloadURL))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

var _ Mailer = (*SMTPMailer)(nil)
