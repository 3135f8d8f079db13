package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/store"
)

// ErrConfigMissing indica que no hay configuración SMTP guardada todavía.
var ErrConfigMissing = errors.New("mail: smtp configuration not found")

// TransportError envuelve una falla del transporte. El mensaje del error
// subyacente se expone al caller; es el único detalle interno que cruza
// la frontera HTTP.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// SendRequest son los campos de un despacho. ReplyTo es opcional y defaultea
// al fromEmail configurado.
type SendRequest struct {
	To      string
	Subject string
	Body    string // HTML
	ReplyTo string
}

// Dispatcher consume la configuración de transmisión del store y delega en
// el Sender. No reintenta: una falla de transporte se reporta una sola vez.
type Dispatcher struct {
	store *store.Store

	// NewSender construye el Sender para una configuración dada.
	// Reemplazable en tests.
	NewSender func(cfg store.SMTPConfig) Sender
}

func NewDispatcher(st *store.Store) *Dispatcher {
	return &Dispatcher{
		store: st,
		NewSender: func(cfg store.SMTPConfig) Sender {
			return NewSMTPSender(cfg)
		},
	}
}

// snapshot toma una copia de la config SMTP. El lock del store nunca se
// sostiene durante el I/O de red que sigue.
func (d *Dispatcher) snapshot() (store.SMTPConfig, error) {
	cfg, ok := d.store.SMTP()
	if !ok {
		return store.SMTPConfig{}, ErrConfigMissing
	}
	return cfg, nil
}

// SendMessage resuelve from/replyTo desde la configuración y entrega el
// mensaje. Validación de campos requeridos ocurre en el handler.
func (d *Dispatcher) SendMessage(ctx context.Context, req SendRequest) error {
	cfg, err := d.snapshot()
	if err != nil {
		return err
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%q <%s>", cfg.FromName, cfg.FromEmail)
	}
	replyTo := req.ReplyTo
	if replyTo == "" {
		replyTo = cfg.FromEmail
	}

	msg := Message{
		From:     from,
		To:       req.To,
		ReplyTo:  replyTo,
		Subject:  req.Subject,
		HTMLBody: req.Body,
	}

	log := logger.From(ctx).With(
		logger.Component("dispatcher"),
		logger.String("to", req.To),
	)

	if err := d.NewSender(cfg).Send(msg); err != nil {
		log.Error("dispatch failed", logger.Err(err))
		return &TransportError{Err: err}
	}

	log.Info("message dispatched")
	return nil
}

// TestConnection verifica alcanzabilidad y autenticación contra el servidor
// configurado, sin enviar ningún mensaje.
func (d *Dispatcher) TestConnection(ctx context.Context) error {
	cfg, err := d.snapshot()
	if err != nil {
		return err
	}

	if err := d.NewSender(cfg).Verify(); err != nil {
		logger.From(ctx).Error("smtp connection test failed",
			logger.Component("dispatcher"),
			logger.Err(err),
		)
		return &TransportError{Err: err}
	}
	return nil
}
