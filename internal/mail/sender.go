// Package mail implementa el despacho de mensajes salientes sobre SMTP.
package mail

import (
	"crypto/tls"
	"fmt"

	gomail "github.com/go-mail/mail"

	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/store"
)

// Message es un mensaje saliente ya resuelto (from/replyTo calculados).
type Message struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string // alternativa text/plain opcional
}

// Sender es el colaborador de transporte. Implementado por SMTPSender;
// los tests inyectan fakes.
type Sender interface {
	// Send entrega el mensaje vía el transporte.
	Send(m Message) error

	// Verify comprueba conectividad y autenticación sin enviar un mensaje.
	Verify() error
}

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host               string
	Port               int
	User               string
	Pass               string
	SSL                bool // TLS implícito (SMTPS); si no, STARTTLS negociado
	InsecureSkipVerify bool
}

// NewSMTPSender construye un SMTPSender desde la configuración persistida.
func NewSMTPSender(cfg store.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		Host: cfg.Host,
		Port: cfg.Port,
		User: cfg.User,
		Pass: cfg.Password,
		SSL:  cfg.Secure,
	}
}

func (s *SMTPSender) dialer() *gomail.Dialer {
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.SSL = s.SSL
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}
	return d
}

// Send envía el mensaje. Si hay TextBody se arma multipart/alternative.
func (s *SMTPSender) Send(m Message) error {
	log := logger.L().With(
		logger.Component("SMTPSender"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
		logger.String("to", m.To),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}

	if m.TextBody != "" {
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	} else {
		msg.SetBody("text/html", m.HTMLBody)
	}

	if err := s.dialer().DialAndSend(msg); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}

	log.Info("email sent")
	return nil
}

// Verify abre y cierra una conexión autenticada contra el servidor.
func (s *SMTPSender) Verify() error {
	sc, err := s.dialer().Dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return sc.Close()
}
