package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/snapser-community/snapser-byosnaps/internal/metrics"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	GetGame(ctx context.Context, userID string) (*State, error)
	SaveGame(ctx context.Context, userID string, data map[string]any) (*State, error)
	DeleteUser(ctx context.Context, userID string) error
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{
		store: store,
		now:   time.Now,
	}
}

func (s *service) GetGame(ctx context.Context, userID string) (*State, error) {
	ctx, span := tracer.Start(ctx, "domain.game.GetGame")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	span.SetAttributes(attribute.String("game.user_id", userID))

	state, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		metrics.GameStoreOperations.WithLabelValues("get", metrics.OutcomeMiss).Inc()
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		metrics.GameStoreOperations.WithLabelValues("get", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	metrics.GameStoreOperations.WithLabelValues("get", metrics.OutcomeSuccess).Inc()
	return state, nil
}

func (s *service) SaveGame(ctx context.Context, userID string, data map[string]any) (*State, error) {
	ctx, span := tracer.Start(ctx, "domain.game.SaveGame")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if data == nil {
		data = map[string]any{}
	}
	span.SetAttributes(
		attribute.String("game.user_id", userID),
		attribute.Int("game.fields", len(data)),
	)

	state := &State{
		UserID:    userID,
		Data:      data,
		UpdatedAt: s.now().UTC(),
	}

	if err := s.store.Set(ctx, state); err != nil {
		span.RecordError(err)
		metrics.GameStoreOperations.WithLabelValues("set", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	metrics.GameStoreOperations.WithLabelValues("set", metrics.OutcomeSuccess).Inc()
	logger.InfoContext(ctx, "game state saved", slog.String("user_id", userID))
	return state, nil
}

// DeleteUser drops everything stored for the user. Deleting a user with no
// saved state is not an error.
func (s *service) DeleteUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "domain.game.DeleteUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}
	span.SetAttributes(attribute.String("game.user_id", userID))

	if err := s.store.Delete(ctx, userID); err != nil {
		span.RecordError(err)
		metrics.GameStoreOperations.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("failed to delete game state: %w", err)
	}

	metrics.GameStoreOperations.WithLabelValues("delete", metrics.OutcomeSuccess).Inc()
	logger.InfoContext(ctx, "user game state deleted", slog.String("user_id", userID))
	return nil
}
