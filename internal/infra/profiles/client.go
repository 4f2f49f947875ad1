package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/metrics"
	httpclient "github.com/snapser-community/snapser-byosnaps/pkg/http"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

const upsertProfilePath = "/v1/profiles/internal/users/{user_id}/profile"

// Client talks to the Profiles snap over its internal HTTP API.
type Client interface {
	// UpsertProfile returns the raw JSON body of a successful upsert.
	UpsertProfile(ctx context.Context, userID string, profile map[string]any) ([]byte, error)
}

type client struct {
	http       *httpclient.Client
	gatewayKey string
}

// NewClient calls baseURL with the gateway header marking the call as
// internal, so the Profiles service authorizes it through its internal branch.
func NewClient(baseURL string, headerKeys authz.HeaderKeys, opts ...httpclient.ClientOption) Client {
	return &client{
		http:       httpclient.NewClient(strings.TrimSuffix(baseURL, "/"), opts...),
		gatewayKey: headerKeys.Gateway,
	}
}

func (c *client) UpsertProfile(ctx context.Context, userID string, profile map[string]any) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "infra.profiles.UpsertProfile")
	defer span.End()

	span.SetAttributes(attribute.String("profiles.user_id", userID))

	start := time.Now()
	resp, err := c.http.Put(ctx, upsertProfilePath,
		httpclient.WithPathParam("user_id", userID),
		httpclient.WithHeader(c.gatewayKey, string(authz.AuthTypeInternal)),
		httpclient.WithBody(UpsertProfileRequest{Profile: profile}),
	)
	elapsed := time.Since(start).Seconds()

	if err != nil || resp == nil || resp.RawResponse == nil {
		metrics.ProfilesRequestDuration.WithLabelValues("upsert", metrics.OutcomeError).Observe(elapsed)
		if err == nil {
			err = errors.New("empty response")
		}
		span.RecordError(err)
		logger.ErrorContext(ctx, "profiles upsert failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}

	if resp.IsError() {
		metrics.ProfilesRequestDuration.WithLabelValues("upsert", metrics.OutcomeError).Observe(elapsed)
		logger.WarnContext(ctx, "profiles upsert rejected",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode()),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	metrics.ProfilesRequestDuration.WithLabelValues("upsert", metrics.OutcomeSuccess).Observe(elapsed)
	return resp.Body(), nil
}
