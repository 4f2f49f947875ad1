package authz

import (
	"context"
	"log/slog"

	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/metrics"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// Request is everything the authorization check needs for one inbound call.
type Request struct {
	// Route is the route name, used for metrics and logs only.
	Route       string
	Allowed     authz.AllowedTypes
	Headers     authz.HeaderBundle
	RouteUserID string
}

type Service interface {
	Authorize(ctx context.Context, req Request) authz.Decision
}

type service struct {
	decider authz.Decider
}

func NewService(decider authz.Decider) Service {
	return &service{
		decider: decider,
	}
}

func (s *service) Authorize(ctx context.Context, req Request) authz.Decision {
	ctx, span := tracer.Start(ctx, "app.authz.Authorize")
	defer span.End()

	span.SetAttributes(
		attribute.String("authz.route", req.Route),
		attribute.String("authz.allowed_types", req.Allowed.String()),
	)

	decision := s.decider.Decide(req.Allowed, req.Headers, req.RouteUserID)

	if decision.Authorized {
		span.SetAttributes(
			attribute.Bool("authz.allowed", true),
			attribute.String("authz.branch", string(decision.Branch)),
		)
		metrics.AuthzDecisions.WithLabelValues(req.Route, metrics.OutcomeAllowed, string(decision.Branch)).Inc()
		logger.DebugContext(ctx, "authorization allowed",
			slog.String("route", req.Route),
			slog.String("branch", string(decision.Branch)),
		)
		return decision
	}

	span.SetAttributes(attribute.Bool("authz.allowed", false))
	metrics.AuthzDecisions.WithLabelValues(req.Route, metrics.OutcomeDenied, "none").Inc()
	logger.WarnContext(ctx, "authorization denied",
		slog.String("route", req.Route),
		slog.String("allowed_types", req.Allowed.String()),
		slog.Bool("user_id_present", req.Headers.UserID != ""),
	)

	return decision
}
