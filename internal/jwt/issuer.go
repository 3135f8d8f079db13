// Package jwt emite y verifica los bearer tokens del operador.
//
// Los tokens son HS256 firmados con un secreto único de proceso. No hay
// estado server-side: la posesión de un token firmado y no expirado es la
// única prueba de autenticación.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Identity es el claim embebido en cada token. Solo el email persiste.
type Identity struct {
	Email string
}

// DefaultTTL es la vida útil por defecto de un token (7 días).
const DefaultTTL = 7 * 24 * time.Hour

var ErrNoSecret = errors.New("jwt: signing secret is empty")

// Issuer firma y verifica tokens con un secreto simétrico de proceso.
type Issuer struct {
	secret []byte
	ttl    time.Duration

	// now es inyectable para simular reloj en tests.
	now func() time.Time
}

// NewIssuer crea un Issuer. Un secreto vacío es un error fatal de
// configuración: se reporta acá, nunca por-request.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue emite un token firmado para la identidad dada.
// No hay caso de error para input válido: el secreto ya fue validado en NewIssuer.
func (i *Issuer) Issue(id Identity) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)

	claims := jwtv5.MapClaims{
		"email": id.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify valida firma y expiración y recupera la identidad.
//
// Toda falla (token malformado, firma inválida, expirado) colapsa en un único
// ok=false. El verificador nunca distingue la causa hacia el caller, para no
// funcionar como oráculo de por qué un token falló.
func (i *Issuer) Verify(raw string) (Identity, bool) {
	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithExpirationRequired(),
	)

	claims := jwtv5.MapClaims{}
	tk, err := parser.ParseWithClaims(raw, claims, func(t *jwtv5.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !tk.Valid {
		return Identity{}, false
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return Identity{}, false
	}
	return Identity{Email: email}, true
}
