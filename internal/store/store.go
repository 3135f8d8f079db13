// Package store implementa el aggregate persistido del operador: credencial,
// configuración SMTP y colección de templates, en un único archivo JSON.
//
// Todas las mutaciones son read-modify-persist bajo un write lock: o la
// operación completa (incluida la persistencia) o no muta nada. Las lecturas
// devuelven copias y nunca observan un aggregate a medio escribir.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/util/atomicwrite"
)

var (
	// ErrInvalidCredentials cubre tanto email desconocido como password
	// incorrecta. Es deliberadamente indistinguible (anti-enumeración).
	ErrInvalidCredentials = errors.New("store: invalid credentials")

	// ErrTemplateNotFound indica que ningún template tiene el id pedido.
	ErrTemplateNotFound = errors.New("store: template not found")
)

// Hasher es la primitiva one-way de passwords que consume el store.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Store es el único punto de acceso al aggregate. A lo sumo una instancia
// viva por proceso; se inyecta por referencia a cada operación.
type Store struct {
	mu     sync.RWMutex
	path   string
	hasher Hasher
	data   data
}

// Open carga el aggregate desde path, inicializándolo si no existe.
// En el primer arranque la credencial se crea con adminEmail y el hash de
// adminPassword (provistos por configuración de proceso).
func Open(path, adminEmail, adminPassword string, h Hasher) (*Store, error) {
	s := &Store{path: path, hasher: h}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(b, &s.data); err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		hash, err := h.Hash(adminPassword)
		if err != nil {
			return nil, fmt.Errorf("store: hash initial password: %w", err)
		}
		s.data = data{
			User:      Credential{Email: adminEmail, PasswordHash: hash},
			SMTP:      nil,
			Templates: []Template{},
		}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		logger.L().Info("store initialized",
			logger.Component("store"),
			logger.String("path", path),
			logger.Email(adminEmail),
		)
	default:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	return s, nil
}

// persistLocked serializa y escribe el aggregate. Caller debe tener el write
// lock (o exclusividad garantizada, como en Open).
func (s *Store) persistLocked() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := atomicwrite.AtomicWriteFile(s.path, b, 0600); err != nil {
		return fmt.Errorf("store: persist: %w", err)
	}
	return nil
}

// ─── Credencial ───

// Credential devuelve una copia de la credencial del operador.
func (s *Store) Credential() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User
}

// VerifyPassword compara plain contra el digest almacenado.
// El cómputo argon2 corre fuera del lock.
func (s *Store) VerifyPassword(plain string) bool {
	s.mu.RLock()
	hash := s.data.User.PasswordHash
	s.mu.RUnlock()
	return s.hasher.Verify(plain, hash)
}

// ChangePassword reemplaza el digest tras verificar la password actual.
// Verificación, re-hash y persistencia ocurren como un paso atómico: si la
// escritura falla, el digest en memoria no cambia.
func (s *Store) ChangePassword(current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasher.Verify(current, s.data.User.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("store: hash new password: %w", err)
	}

	prev := s.data.User.PasswordHash
	s.data.User.PasswordHash = hash
	if err := s.persistLocked(); err != nil {
		s.data.User.PasswordHash = prev
		return err
	}
	return nil
}

// ─── SMTP ───

// SMTP devuelve una copia de la configuración de transmisión, o ok=false si
// nunca fue guardada. La copia incluye la password real: el masking hacia
// afuera es responsabilidad del handler.
func (s *Store) SMTP() (SMTPConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.SMTP == nil {
		return SMTPConfig{}, false
	}
	return *s.data.SMTP, true
}

// SaveSMTP reemplaza la configuración completa (sin merge) y persiste.
func (s *Store) SaveSMTP(cfg SMTPConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data.SMTP
	s.data.SMTP = &cfg
	if err := s.persistLocked(); err != nil {
		s.data.SMTP = prev
		return err
	}
	return nil
}

// ─── Templates ───

// Templates devuelve una copia de la colección en orden de inserción.
func (s *Store) Templates() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Template, len(s.data.Templates))
	copy(out, s.data.Templates)
	return out
}

// CreateTemplate agrega un template al final de la colección con un id
// recién generado y persiste. El id es un UUID v4: único incluso bajo
// creación concurrente rápida, a diferencia de un id derivado de timestamp.
func (s *Store) CreateTemplate(name, subject, body string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl := Template{
		ID:      uuid.NewString(),
		Name:    name,
		Subject: subject,
		Body:    body,
	}
	s.data.Templates = append(s.data.Templates, tpl)
	if err := s.persistLocked(); err != nil {
		s.data.Templates = s.data.Templates[:len(s.data.Templates)-1]
		return Template{}, err
	}
	return tpl, nil
}

// DeleteTemplate remueve el template con el id dado preservando el orden del
// resto. Si el id no existe, la colección queda intacta.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.data.Templates {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTemplateNotFound
	}

	prev := s.data.Templates
	next := make([]Template, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.data.Templates = next

	if err := s.persistLocked(); err != nil {
		s.data.Templates = prev
		return err
	}
	return nil
}
