package memory

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/hamed0406/capprobe/internal/domain"
)

// Store keeps the latest sealed report behind an atomic pointer. Readers see
// either the previous report or the new one, never a mix.
type Store struct {
	latest atomic.Pointer[domain.RunReport]
}

func New() *Store {
	return &Store{}
}

func (m *Store) Save(ctx context.Context, r *domain.RunReport) error {
	if r == nil {
		return errors.New("memory: nil report")
	}
	m.latest.Store(r)
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.RunReport, bool) {
	r := m.latest.Load()
	return r, r != nil
}
