package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/Ji-Haitang/char-card-1/pkg/gamestate"
)

// MockStorage is an in-memory Storage for tests. States round-trip
// through JSON so tests observe the same serialization behavior as the
// Redis implementation.
type MockStorage struct {
	mu     sync.RWMutex
	states map[uuid.UUID][]byte

	PingErr error
	SaveErr error
	LoadErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		states: make(map[uuid.UUID][]byte),
	}
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *gamestate.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*gamestate.GameState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.RLock()
	data, ok := m.states[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	gs, _, err := gamestate.Merge(data)
	if err != nil {
		return nil, err
	}
	gs.ID = id
	return gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}
