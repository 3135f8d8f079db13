package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/store"
)

// secretPlaceholder reemplaza la password SMTP en toda respuesta.
// El secreto real nunca se re-expone; solo se puede re-ingresar.
const secretPlaceholder = "********"

// flexInt acepta número JSON o string numérico ("587" y 587 valen igual).
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type SaveSMTPRequest struct {
	Host      string  `json:"host"`
	Port      flexInt `json:"port"`
	Secure    bool    `json:"secure"`
	User      *string `json:"user"` // puntero: puede ser string vacío pero no ausente
	Password  string  `json:"password"`
	FromName  string  `json:"fromName"`
	FromEmail string  `json:"fromEmail"`
}

// NewGetSMTPHandler devuelve la configuración guardada (o null) con la
// password enmascarada.
func NewGetSMTPHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, ok := c.Store.SMTP()
		if !ok {
			helpers.WriteJSON(w, http.StatusOK, map[string]any{"smtp": nil})
			return
		}

		masked := cfg
		if masked.Password != "" {
			masked.Password = secretPlaceholder
		}
		helpers.WriteJSON(w, http.StatusOK, map[string]store.SMTPConfig{"smtp": masked})
	}
}

// NewSaveSMTPHandler guarda la configuración de transmisión. Reemplazo
// completo, sin merge: lo que no viene queda en su zero value.
func NewSaveSMTPHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveSMTPRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
		if req.Host == "" || req.Port == 0 || req.User == nil || req.FromEmail == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("host, port, user and fromEmail are required"))
			return
		}
		if req.Port < 1 || req.Port > 65535 {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("port must be between 1 and 65535"))
			return
		}

		cfg := store.SMTPConfig{
			Host:      req.Host,
			Port:      int(req.Port),
			Secure:    req.Secure,
			User:      *req.User,
			Password:  req.Password,
			FromName:  req.FromName,
			FromEmail: req.FromEmail,
		}
		if err := c.Store.SaveSMTP(cfg); err != nil {
			httperrors.WriteError(w, err)
			return
		}

		logger.From(r.Context()).Info("smtp configuration saved",
			logger.String("host", cfg.Host),
			logger.Int("port", cfg.Port),
		)
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "SMTP configuration saved successfully",
		})
	}
}

var _ json.Unmarshaler = (*flexInt)(nil)
