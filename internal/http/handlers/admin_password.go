package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/helpers"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/store"
)

// minPasswordLength es el largo mínimo de una password nueva.
const minPasswordLength = 8

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// NewChangePasswordHandler reemplaza el digest del operador previa
// verificación de la password actual. Validación antes de mutar nada.
func NewChangePasswordHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("current and new password are required"))
			return
		}
		if len(req.NewPassword) < minPasswordLength {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("new password must be at least 8 characters"))
			return
		}

		if err := c.Store.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
			if errors.Is(err, store.ErrInvalidCredentials) {
				httperrors.WriteError(w, httperrors.ErrCurrentPasswordIncorrect)
				return
			}
			httperrors.WriteError(w, err)
			return
		}

		logger.From(r.Context()).Info("operator password changed")
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Password changed successfully",
		})
	}
}
