package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/game"
)

// fakeRedis records the commands the game store issues. Commands it does not
// override panic through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable

	values  map[string][]byte
	ttls    map[string]time.Duration
	deleted []string
	getErr  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(val), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	data, ok := value.([]byte)
	if !ok {
		return redis.NewStatusResult("", errors.New("unexpected value type"))
	}
	f.values[key] = data
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		f.deleted = append(f.deleted, key)
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestGameKey(t *testing.T) {
	if got := gameKey("u1"); got != "byosnap:game:u1" {
		t.Errorf("expected byosnap:game:u1, got %s", got)
	}
}

func TestRedisGameStore_RoundTrip(t *testing.T) {
	client := newFakeRedis()
	store := NewGameStore(client, 0)
	ctx := context.Background()

	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state := &game.State{UserID: "u1", Data: map[string]any{"level": "castle"}, UpdatedAt: updated}
	if err := store.Set(ctx, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, ok := client.values["byosnap:game:u1"]
	if !ok {
		t.Fatalf("expected value under byosnap:game:u1, got keys %v", client.values)
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if stored["user_id"] != "u1" {
		t.Errorf("expected user_id u1 in stored JSON, got %v", stored["user_id"])
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u1" || got.Data["level"] != "castle" || !got.UpdatedAt.Equal(updated) {
		t.Errorf("unexpected state after round trip: %+v", got)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "byosnap:game:u1" {
		t.Errorf("expected delete of byosnap:game:u1, got %v", client.deleted)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisGameStore_TTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "no expiry", ttl: 0},
		{name: "one hour", ttl: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeRedis()
			store := NewGameStore(client, tt.ttl)

			if err := store.Set(context.Background(), &game.State{UserID: "u1"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := client.ttls["byosnap:game:u1"]; got != tt.ttl {
				t.Errorf("expected expiration %v, got %v", tt.ttl, got)
			}
		})
	}
}

func TestRedisGameStore_GetErrors(t *testing.T) {
	tests := []struct {
		name         string
		getErr       error
		wantNotFound bool
	}{
		{name: "missing key", getErr: redis.Nil, wantNotFound: true},
		{name: "connection failure", getErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeRedis()
			client.getErr = tt.getErr
			store := NewGameStore(client, 0)

			_, err := store.Get(context.Background(), "u1")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, game.ErrNotFound); got != tt.wantNotFound {
				t.Errorf("expected ErrNotFound=%v, got %v", tt.wantNotFound, err)
			}
		})
	}
}
