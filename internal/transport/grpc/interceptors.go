package grpc

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"connectrpc.com/connect"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
)

func recoveryInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered",
						slog.String("method", req.Spec().Procedure),
						slog.Any("panic", r),
					)
					resp = nil
					err = connect.NewError(connect.CodeInternal, fmt.Errorf("panic: %v", r))
				}
			}()
			return next(ctx, req)
		}
	}
}

func loggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "rpc failed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()),
				)
			} else {
				logger.InfoContext(ctx, "rpc completed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
				)
			}

			return resp, err
		}
	}
}
