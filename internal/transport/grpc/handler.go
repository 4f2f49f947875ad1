package grpc

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	authzapp "github.com/snapser-community/snapser-byosnaps/internal/app/authz"
	authzdomain "github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// rpcRoute labels decisions made over RPC in metrics and logs.
const rpcRoute = "rpc"

type Handler struct {
	appService authzapp.Service
}

func NewHandler(appService authzapp.Service) *Handler {
	return &Handler{
		appService: appService,
	}
}

func (h *Handler) Check(ctx context.Context, req *connect.Request[CheckRequest]) (*connect.Response[CheckResponse], error) {
	ctx, span := tracer.Start(ctx, "transport.grpc.Check")
	defer span.End()

	allowed, err := authzdomain.ParseAllowedTypes(req.Msg.AllowedTypes...)
	if err != nil {
		span.RecordError(err)
		logger.WarnContext(ctx, "invalid check request", slog.String("error", err.Error()))
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	headers := authzdomain.HeaderBundle{
		Gateway:  req.Msg.Gateway,
		AuthType: req.Msg.AuthType,
		UserID:   req.Msg.UserID,
	}
	hasRouteUser := req.Msg.RouteUserID != ""
	span.SetAttributes(attribute.Bool("authz.route_user", hasRouteUser))

	decision := h.appService.Authorize(ctx, authzapp.Request{
		Route:       rpcRoute,
		Allowed:     allowed,
		Headers:     headers,
		RouteUserID: authzdomain.TargetUser(req.Msg.RouteUserID, hasRouteUser, headers),
	})

	return connect.NewResponse(&CheckResponse{
		Authorized: decision.Authorized,
		Branch:     string(decision.Branch),
		Message:    decision.Message,
	}), nil
}
