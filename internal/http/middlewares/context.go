package middlewares

import (
	"context"

	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
)

type ctxKey int

const (
	ctxKeyIdentity ctxKey = iota
	ctxKeyRequestID
)

// WithIdentity inyecta la identidad resuelta del token en el contexto.
func WithIdentity(ctx context.Context, id jwtx.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// GetIdentity extrae la identidad del contexto. ok=false si el request no
// pasó por RequireAuth.
func GetIdentity(ctx context.Context) (jwtx.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(jwtx.Identity)
	return id, ok
}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID extrae el request ID del contexto ("" si no hay).
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKeyRequestID).(string)
	return rid
}
