package handlers

import (
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	"github.com/dropDatabas3/maildesk/internal/mail"
)

type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	ReplyTo string `json:"replyTo"`
}

// NewSendHandler despacha un mensaje usando la configuración guardada.
func NewSendHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
		if req.To == "" || req.Subject == "" || req.Body == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("to, subject and body are required"))
			return
		}

		err := c.Dispatcher.SendMessage(r.Context(), mail.SendRequest{
			To:      req.To,
			Subject: req.Subject,
			Body:    req.Body,
			ReplyTo: req.ReplyTo,
		})
		if err != nil {
			writeDispatchError(w, err)
			return
		}

		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Email sent successfully",
		})
	}
}
