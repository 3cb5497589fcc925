package mail

import (
	"crypto/tls"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	SkipTLSVerify bool
}

// SMTPMailer — почтовый транспорт поверх gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	return &SMTPMailer{
		dialer: d,
		from:   cfg.From,
		log:    log.With().Str("component", "SMTPMailer").Logger(),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error().
			Err(err).
			Str("to", to).
			Str("subject", subject).
			Msg("failed to send email")

		return fmt.Errorf("dialer.DialAndSend: %w", err)
	}

	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("email sent")

	return nil
}
