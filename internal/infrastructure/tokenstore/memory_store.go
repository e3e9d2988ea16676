package tokenstore

import (
	"fmt"
	"sync"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
)

var _ repository.TokenStore = (*MemoryStore)(nil)

// MemoryStore TokenStore en memoria, para tests y para embeber el cliente sin disco.
type MemoryStore struct {
	mu      sync.RWMutex
	session *entity.Session
}

// NewMemoryStore construye el store vacío.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

func (s *MemoryStore) Save(session entity.Session) error {
	if !session.Complete() {
		return fmt.Errorf("tokenstore: %w: la sesión requiere token y perfil", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return nil
}
