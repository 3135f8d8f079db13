package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/maildesk/internal/app"
	"github.com/dropDatabas3/maildesk/internal/http/router"
	jwtx "github.com/dropDatabas3/maildesk/internal/jwt"
	"github.com/dropDatabas3/maildesk/internal/mail"
	"github.com/dropDatabas3/maildesk/internal/store"
)

type fastHasher struct{}

func (fastHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (fastHasher) Verify(plain, hash string) bool    { return hash == "h:"+plain }

type fakeSender struct {
	sent      []mail.Message
	sendErr   error
	verifyErr error
}

func (f *fakeSender) Send(m mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) Verify() error { return f.verifyErr }

type env struct {
	handler http.Handler
	c       *app.Container
	sender  *fakeSender
	token   string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "store.json"),
		"admin@example.com", "changeme123", fastHasher{})
	require.NoError(t, err)

	issuer, err := jwtx.NewIssuer("test-secret", jwtx.DefaultTTL)
	require.NoError(t, err)

	sender := &fakeSender{}
	dispatcher := mail.NewDispatcher(st)
	dispatcher.NewSender = func(cfg store.SMTPConfig) mail.Sender { return sender }

	c := &app.Container{Store: st, Issuer: issuer, Dispatcher: dispatcher}
	h := router.New(router.Deps{Container: c})

	token, _, err := issuer.Issue(jwtx.Identity{Email: "admin@example.com"})
	require.NoError(t, err)

	return &env{handler: h, c: c, sender: sender, token: token}
}

func (e *env) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// ─── Login ───

func TestLoginMissingFields(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/login", `{"email":"admin@example.com"}`, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	e := newEnv(t)

	// Email desconocido y password incorrecta: respuesta idéntica
	unknown := e.do(t, http.MethodPost, "/api/login",
		`{"email":"nobody@example.com","password":"changeme123"}`, false)
	wrongPass := e.do(t, http.MethodPost, "/api/login",
		`{"email":"admin@example.com","password":"bad"}`, false)

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLoginEmailIsCaseSensitive(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/login",
		`{"email":"Admin@Example.com","password":"changeme123"}`, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginSuccessIssuesVerifiableToken(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/login",
		`{"email":"admin@example.com","password":"changeme123"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "admin@example.com", body["email"])

	id, ok := e.c.Issuer.Verify(body["token"].(string))
	require.True(t, ok)
	require.Equal(t, "admin@example.com", id.Email)
}

// ─── Gate ───

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/admin/change-password"},
		{http.MethodGet, "/api/smtp"},
		{http.MethodPost, "/api/smtp"},
		{http.MethodPost, "/api/smtp/test"},
		{http.MethodPost, "/api/send"},
		{http.MethodGet, "/api/templates"},
		{http.MethodPost, "/api/templates"},
		{http.MethodDelete, "/api/templates?id=x"},
	} {
		rec := e.do(t, route.method, route.path, "", false)
		require.Equalf(t, http.StatusUnauthorized, rec.Code,
			"%s %s must be gated", route.method, route.path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPut, "/api/templates", "", true)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/login", "", false)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ─── Change password ───

func TestChangePasswordValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/admin/change-password",
		`{"currentPassword":"changeme123"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Muy corta: 400 y el digest queda intacto
	rec = e.do(t, http.MethodPost, "/api/admin/change-password",
		`{"currentPassword":"changeme123","newPassword":"short"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, e.c.Store.VerifyPassword("changeme123"))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/admin/change-password",
		`{"currentPassword":"nope","newPassword":"new-password-1"}`, true)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.True(t, e.c.Store.VerifyPassword("changeme123"))
}

func TestChangePasswordSuccess(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/admin/change-password",
		`{"currentPassword":"changeme123","newPassword":"new-password-1"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	// La vieja deja de autenticar, la nueva sí
	old := e.do(t, http.MethodPost, "/api/login",
		`{"email":"admin@example.com","password":"changeme123"}`, false)
	require.Equal(t, http.StatusUnauthorized, old.Code)
	fresh := e.do(t, http.MethodPost, "/api/login",
		`{"email":"admin@example.com","password":"new-password-1"}`, false)
	require.Equal(t, http.StatusOK, fresh.Code)
}

// ─── SMTP config ───

func TestGetSMTPWhenAbsent(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/smtp", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decode(t, rec)["smtp"])
}

func TestSaveSMTPValidation(t *testing.T) {
	e := newEnv(t)

	// user ausente (no solo vacío) es inválido
	rec := e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":587,"fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// user presente pero vacío es válido
	rec = e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":587,"user":"","fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	// puerto fuera de rango
	rec = e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":70000,"user":"a","fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveSMTPCoercesPortString(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":"587","user":"a@b.com","password":"p","fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg, ok := e.c.Store.SMTP()
	require.True(t, ok)
	require.Equal(t, 587, cfg.Port)
}

func TestGetSMTPMasksSecret(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":587,"user":"a@b.com","password":"real-secret","fromName":"Desk","fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/smtp", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "real-secret")

	smtp := decode(t, rec)["smtp"].(map[string]any)
	require.Equal(t, "********", smtp["password"])
	require.Equal(t, "smtp.example.com", smtp["host"])

	// Internamente el secreto real sigue disponible para el dispatcher
	cfg, ok := e.c.Store.SMTP()
	require.True(t, ok)
	require.Equal(t, "real-secret", cfg.Password)
}

// ─── Send / test connection ───

func saveSMTP(t *testing.T, e *env) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/smtp",
		`{"host":"smtp.example.com","port":587,"secure":false,"user":"a@b.com","password":"p","fromEmail":"a@b.com"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSendWithoutConfig(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/send",
		`{"to":"x@y.com","subject":"Hi","body":"<p>hi</p>"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMissingFields(t *testing.T) {
	e := newEnv(t)
	saveSMTP(t, e)
	rec := e.do(t, http.MethodPost, "/api/send", `{"to":"x@y.com"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendDelegatesToTransport(t *testing.T) {
	e := newEnv(t)
	saveSMTP(t, e)

	rec := e.do(t, http.MethodPost, "/api/send",
		`{"to":"x@y.com","subject":"Hi","body":"<p>hi</p>"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, e.sender.sent, 1)
	m := e.sender.sent[0]
	require.Equal(t, "a@b.com", m.From)
	require.Equal(t, "a@b.com", m.ReplyTo)
	require.Equal(t, "x@y.com", m.To)
}

func TestSendTransportFailure(t *testing.T) {
	e := newEnv(t)
	saveSMTP(t, e)
	e.sender.sendErr = errors.New("454 TLS not available")

	rec := e.do(t, http.MethodPost, "/api/send",
		`{"to":"x@y.com","subject":"Hi","body":"<p>hi</p>"}`, true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// El texto del transporte viaja al cliente
	require.Contains(t, rec.Body.String(), "454 TLS not available")
}

func TestSMTPTestConnection(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/smtp/test", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code, "sin config guardada")

	saveSMTP(t, e)
	rec = e.do(t, http.MethodPost, "/api/smtp/test", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	e.sender.verifyErr = errors.New("535 authentication failed")
	rec = e.do(t, http.MethodPost, "/api/smtp/test", "", true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "535 authentication failed")
}

// ─── Templates ───

func TestTemplateCRUD(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/templates", `{"name":"Welcome"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/templates",
		`{"name":"Welcome","subject":"Hola","body":"<p>hola</p>"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)["template"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	// El nuevo aparece al final de la lista
	rec = e.do(t, http.MethodGet, "/api/templates", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	tpls := decode(t, rec)["templates"].([]any)
	require.Len(t, tpls, 1)
	require.Equal(t, id, tpls[0].(map[string]any)["id"])

	// Delete sin id
	rec = e.do(t, http.MethodDelete, "/api/templates", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete con id desconocido
	rec = e.do(t, http.MethodDelete, "/api/templates?id=unknown", "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Delete real
	rec = e.do(t, http.MethodDelete, "/api/templates?id="+id, "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/templates", "", true)
	require.Empty(t, decode(t, rec)["templates"])
}
