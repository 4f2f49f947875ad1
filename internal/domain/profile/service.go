package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/snapser-community/snapser-byosnaps/internal/infra/profiles"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	// UpdateProfile returns the JSON document describing the stored profile.
	UpdateProfile(ctx context.Context, userID string, profile map[string]any) (string, error)
}

type service struct {
	client profiles.Client
}

// NewService upserts through client. A nil client makes the service echo the
// profile back, which is how the sample runs outside a Snapend.
func NewService(client profiles.Client) Service {
	return &service{client: client}
}

func (s *service) UpdateProfile(ctx context.Context, userID string, profile map[string]any) (string, error) {
	ctx, span := tracer.Start(ctx, "domain.profile.UpdateProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrEmptyUserID
	}
	if profile == nil {
		return "", ErrProfileRequired
	}
	span.SetAttributes(
		attribute.String("profile.user_id", userID),
		attribute.Bool("profile.remote", s.client != nil),
	)

	if s.client == nil {
		echo, err := json.Marshal(map[string]any{"user_id": userID, "profile": profile})
		if err != nil {
			return "", fmt.Errorf("failed to marshal profile: %w", err)
		}
		return string(echo), nil
	}

	body, err := s.client.UpsertProfile(ctx, userID, profile)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to upsert profile: %w", err)
	}

	return string(body), nil
}
