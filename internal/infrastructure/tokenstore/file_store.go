package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/pkg/logger"
)

var _ repository.TokenStore = (*FileStore)(nil)

// FileName nombre fijo del archivo de sesión dentro del directorio configurado.
const FileName = "session.json"

// fileLayout las dos claves durables de la sesión. Se escriben en un único archivo
// para que el reemplazo por rename sea atómico: o están ambas o ninguna.
type fileLayout struct {
	AuthToken string              `json:"auth_token"`
	UserData  *entity.UserProfile `json:"user_data"`
}

// FileStore implementación del puerto TokenStore sobre el sistema de archivos.
// Cumple el papel del localStorage del navegador: sobrevive entre ejecuciones del CLI.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// NewFileStore crea el directorio (0700) si no existe.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("tokenstore: directorio vacío")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("tokenstore: crear directorio: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileStore{path: filepath.Join(dir, FileName), log: log}, nil
}

// Path ruta del archivo de sesión.
func (s *FileStore) Path() string { return s.path }

// Load lee la sesión. Un archivo corrupto o parcial se elimina y se informa como ausente.
func (s *FileStore) Load() (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() (*entity.Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("tokenstore: leer sesión: %w", err)
	}

	var layout fileLayout
	if err := json.Unmarshal(raw, &layout); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("sesión corrupta, se descarta")
		return nil, s.removeLocked()
	}

	sess := &entity.Session{Token: layout.AuthToken}
	if layout.UserData != nil {
		sess.User = *layout.UserData
	}
	if !sess.Complete() {
		s.log.Warn().Str("path", s.path).Msg("sesión incompleta, se descarta")
		return nil, s.removeLocked()
	}
	return sess, nil
}

// Token devuelve el token persistido o "".
func (s *FileStore) Token() string {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}

// Save escribe la sesión en un temporal del mismo directorio y lo renombra encima del actual.
func (s *FileStore) Save(session entity.Session) error {
	if !session.Complete() {
		return fmt.Errorf("tokenstore: %w: la sesión requiere token y perfil", domain.ErrInvalidInput)
	}
	user := session.User
	raw, err := json.Marshal(fileLayout{AuthToken: session.Token, UserData: &user})
	if err != nil {
		return fmt.Errorf("tokenstore: serializar sesión: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("tokenstore: crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("tokenstore: permisos: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("tokenstore: escribir sesión: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("tokenstore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("tokenstore: cerrar temporal: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("tokenstore: reemplazar sesión: %w", err)
	}
	return nil
}

// Clear elimina el archivo de sesión.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked()
}

func (s *FileStore) removeLocked() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: borrar sesión: %w", err)
	}
	return nil
}
