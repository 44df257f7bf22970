package session

import (
	"context"
	"time"
)

// Manager loads, mutates and saves sessions. Two concurrent updates of the
// same session are not serialised; the last save wins.
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := New(m.now())
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Update applies fn and saves the session unless fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores s as it is, for callers that mutate a session outside Update.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.now()
	return m.store.Save(ctx, s)
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}
