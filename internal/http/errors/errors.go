// Package errors define la taxonomía de errores HTTP y su serialización.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/maildesk/internal/observability/logger"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja tanto *AppError como errores genéricos (estos últimos se colapsan
// en 500 genérico y la causa solo se loguea).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= 500 && appErr.Err != nil {
		logger.L().Error("internal error", logger.Err(appErr.Err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}
