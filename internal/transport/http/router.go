package http

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authzapp "github.com/snapser-community/snapser-byosnaps/internal/app/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/config"
	authzdomain "github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Handler    *Handler
	AppService authzapp.Service
	Routes     *authzdomain.RouteTable
	HeaderKeys authzdomain.HeaderKeys
	// OpenAPI is the pre-rendered document served at /openapi.json.
	OpenAPI []byte
	// RPCPath and RPCHandler mount the connect AuthorizationService. Optional.
	RPCPath    string
	RPCHandler http.Handler
}

func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(cfg.Service.Name))
	}
	router.Use(loggingMiddleware())
	router.Use(cors.New(corsConfig(cfg, deps.HeaderKeys)))

	router.GET("/healthz", deps.Handler.Healthz)
	if cfg.Observability.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if len(deps.OpenAPI) > 0 {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", deps.OpenAPI)
		})
	}

	handlers := deps.Handler.byName()
	for _, route := range deps.Routes.Routes() {
		handle, ok := handlers[route.Name]
		if !ok {
			return nil, fmt.Errorf("no handler for route %s", route.Name)
		}
		router.Handle(route.Method, ginPath(route.Path),
			authorizationMiddleware(route, deps.AppService, deps.HeaderKeys),
			handle,
		)
	}
	for _, path := range deps.Routes.Paths() {
		router.OPTIONS(ginPath(path), deps.Handler.Preflight)
	}

	if deps.RPCHandler != nil {
		router.Any(deps.RPCPath+"*method", gin.WrapH(deps.RPCHandler))
	}

	return router, nil
}

// ginPath turns /users/{user_id} into /users/:user_id.
func ginPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			segments[i] = ":" + strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		}
	}
	return strings.Join(segments, "/")
}

// corsConfig also allows the configured authorization header names so
// renamed keys still pass preflight.
func corsConfig(cfg *config.Config, headerKeys authzdomain.HeaderKeys) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = cfg.CORS.AllowedMethods
	c.AllowHeaders = allowHeaders(cfg.CORS.AllowedHeaders, headerKeys)
	c.ExposeHeaders = []string{requestIDHeader}

	if len(cfg.CORS.AllowedOrigins) == 0 || slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return c
}

func allowHeaders(configured []string, headerKeys authzdomain.HeaderKeys) []string {
	out := make([]string, 0, len(configured)+3)
	seen := make(map[string]struct{}, len(configured)+3)
	for _, h := range append(slices.Clone(configured), headerKeys.Gateway, headerKeys.AuthType, headerKeys.UserID) {
		if h == "" {
			continue
		}
		key := http.CanonicalHeaderKey(h)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}
