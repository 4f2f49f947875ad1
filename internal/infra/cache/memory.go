package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/game"
)

// memoryGameStore is used when no redis URL is configured.
type memoryGameStore struct {
	entries *expirable.LRU[string, game.State]
}

// NewMemoryGameStore keeps state in process for ttl; zero keeps it until
// deleted. The store is unbounded.
func NewMemoryGameStore(ttl time.Duration) game.Store {
	return &memoryGameStore{
		entries: expirable.NewLRU[string, game.State](0, nil, ttl),
	}
}

func (m *memoryGameStore) Get(_ context.Context, userID string) (*game.State, error) {
	entry, ok := m.entries.Get(userID)
	if !ok {
		return nil, game.ErrNotFound
	}

	state := entry
	state.Data = copyData(entry.Data)
	return &state, nil
}

func (m *memoryGameStore) Set(_ context.Context, state *game.State) error {
	entry := *state
	entry.Data = copyData(state.Data)
	m.entries.Add(state.UserID, entry)
	return nil
}

func (m *memoryGameStore) Delete(_ context.Context, userID string) error {
	m.entries.Remove(userID)
	return nil
}

// copyData is shallow; nested values are shared.
func copyData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
