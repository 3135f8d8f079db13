package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
)

// bearerPrefix se compara case-sensitive, con exactamente un espacio.
const bearerPrefix = "Bearer "

// TokenVerifier es lo mínimo que el gate necesita del emisor de tokens.
// Permite mockear la verificación en tests sin tocar el middleware.
type TokenVerifier interface {
	Verify(raw string) (jwtx.Identity, bool)
}

// RequireAuth valida Authorization: Bearer <token> y guarda la identidad en
// el contexto. Header ausente o malformado → 401 sin invocar el handler;
// token inválido o expirado → 401 (el verificador no distingue la causa).
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(ah, bearerPrefix) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			id, ok := verifier.Verify(ah[len(bearerPrefix):])
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
