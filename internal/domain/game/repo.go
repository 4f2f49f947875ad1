package game

import (
	"context"
)

// Store persists game state. Get returns ErrNotFound when nothing is saved
// or the saved state has expired; each store applies its own expiry.
type Store interface {
	Get(ctx context.Context, userID string) (*State, error)
	Set(ctx context.Context, state *State) error
	Delete(ctx context.Context, userID string) error
}
