package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, útil para logs, no se expone al cliente
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail agrega detalle adicional (útil para validaciones).
// Devuelve una COPIA para no mutar las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa). Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// FromError convierte un error genérico en AppError. Si no lo es, devuelve
// un error interno genérico conservando la causa: el detalle interno se
// loguea server-side, nunca viaja al cliente.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// ─── Errores predefinidos ───

// 400 Bad Request — validación
var (
	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "Request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Required fields are missing.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidFormat = &AppError{
		Code:       "INVALID_FORMAT",
		Message:    "One or more fields have an invalid format.",
		HTTPStatus: http.StatusBadRequest,
	}

	// Precondición de despacho: hay que guardar la config SMTP primero.
	ErrSMTPNotConfigured = &AppError{
		Code:       "SMTP_NOT_CONFIGURED",
		Message:    "SMTP configuration not found. Please configure SMTP settings first.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 401 Unauthorized — autenticación.
// INVALID_CREDENTIALS cubre email desconocido y password incorrecta con
// mensaje idéntico: la respuesta no revela si el email existe.
var (
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid credentials.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrCurrentPasswordIncorrect = &AppError{
		Code:       "CURRENT_PASSWORD_INCORRECT",
		Message:    "Current password is incorrect.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "Missing or invalid authorization header.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "Invalid or expired token.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// 404 / 405
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource was not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrTemplateNotFound = &AppError{
		Code:       "TEMPLATE_NOT_FOUND",
		Message:    "Template not found.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "HTTP method not allowed for this resource.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// 429
var (
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many attempts. Try again later.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// 500 — falla de transporte downstream o falla interna no clasificada
var (
	ErrTransport = &AppError{
		Code:       "TRANSPORT_FAILURE",
		Message:    "Mail transport failure.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrInternal = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An internal server error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
