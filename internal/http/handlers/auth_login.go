package handlers

import (
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// NewLoginHandler autentica al operador y emite un bearer token.
//
// Email desconocido y password incorrecta responden EXACTAMENTE igual: el
// error no revela si el email existe. La causa real solo se loguea.
func NewLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email and password are required"))
			return
		}

		log := logger.From(r.Context()).With(logger.Component("login"))

		// Comparación case-sensitive contra la credencial almacenada
		if cred := c.Store.Credential(); cred.Email != req.Email {
			log.Warn("login rejected: unknown email")
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		if !c.Store.VerifyPassword(req.Password) {
			log.Warn("login rejected: wrong password", logger.Email(req.Email))
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}

		token, _, err := c.Issuer.Issue(jwtx.Identity{Email: req.Email})
		if err != nil {
			httperrors.WriteError(w, err)
			return
		}

		log.Info("login ok", logger.Email(req.Email))
		helpers.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, Email: req.Email})
	}
}
