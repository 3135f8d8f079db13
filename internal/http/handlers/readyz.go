package handlers

import (
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/http/helpers"
)

// NewReadyzHandler responde el probe de disponibilidad.
func NewReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
