package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authzapp "github.com/snapser-community/snapser-byosnaps/internal/app/authz"
	authzdomain "github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	decisionKey     = "authz_decision"
	// pathUserIDKey holds the route's user id path parameter, empty when the
	// route has none.
	pathUserIDKey   = "path_user_id"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.GetString(requestIDKey)),
		}
		if v, ok := c.Get(decisionKey); ok {
			if decision, ok := v.(authzdomain.Decision); ok {
				attrs = append(attrs, slog.String("auth_branch", string(decision.Branch)))
			}
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		} else {
			logger.InfoContext(c.Request.Context(), "request completed", attrs...)
		}
	}
}

// authorizationMiddleware runs the header authorization for one route and
// stops the chain with 401 when no allowed type matches.
func authorizationMiddleware(
	route authzdomain.Route,
	appService authzapp.Service,
	headerKeys authzdomain.HeaderKeys,
) gin.HandlerFunc {
	hasPathParam := route.UserIDParam != ""

	return func(c *gin.Context) {
		headers := authzdomain.HeadersFrom(c.Request.Header, headerKeys)

		var pathUserID string
		if hasPathParam {
			pathUserID = c.Param(route.UserIDParam)
		}

		decision := appService.Authorize(c.Request.Context(), authzapp.Request{
			Route:       route.Name,
			Allowed:     route.Allowed,
			Headers:     headers,
			RouteUserID: authzdomain.TargetUser(pathUserID, hasPathParam, headers),
		})

		if !decision.Authorized {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{ErrorMessage: decision.Message})
			return
		}

		c.Set(decisionKey, decision)
		c.Set(pathUserIDKey, pathUserID)
		c.Next()
	}
}
