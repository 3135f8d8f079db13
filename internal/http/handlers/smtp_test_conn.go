package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	"github.com/dropDatabas3/maildesk/internal/mail"
)

// NewTestSMTPHandler verifica conectividad y autenticación contra el servidor
// configurado, sin enviar ningún mensaje.
func NewTestSMTPHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Dispatcher.TestConnection(r.Context()); err != nil {
			writeDispatchError(w, err)
			return
		}
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "SMTP connection successful",
		})
	}
}

// writeDispatchError mapea los errores del dispatcher al contrato HTTP:
// config ausente → 400; falla de transporte → 500 con el texto del transporte
// (único detalle interno que cruza la frontera).
func writeDispatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, mail.ErrConfigMissing) {
		httperrors.WriteError(w, httperrors.ErrSMTPNotConfigured)
		return
	}
	var te *mail.TransportError
	if errors.As(err, &te) {
		httperrors.WriteError(w, httperrors.ErrTransport.WithDetail(te.Error()))
		return
	}
	httperrors.WriteError(w, err)
}
