package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/opshub/internal/domain/repository"
)

var _ repository.TokenRevocationList = (*RevocationList)(nil)

// RevocationList jti revocados con su expiración; las entradas vencidas se purgan al revocar.
type RevocationList struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{until: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(_ context.Context, jti string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for id, exp := range l.until {
		if !exp.After(now) {
			delete(l.until, id)
		}
	}
	l.until[jti] = until
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.until[jti]
	return ok && exp.After(l.now()), nil
}
