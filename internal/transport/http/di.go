package http

import (
	"context"
	"fmt"
	"net/http"

	"log/slog"

	authzapp "github.com/snapser-community/snapser-byosnaps/internal/app/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/config"
	authzdomain "github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/game"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/profile"
	"github.com/snapser-community/snapser-byosnaps/internal/infra/cache"
	"github.com/snapser-community/snapser-byosnaps/internal/infra/profiles"
	"github.com/snapser-community/snapser-byosnaps/internal/openapi"
	rpctransport "github.com/snapser-community/snapser-byosnaps/internal/transport/grpc"
	httpclient "github.com/snapser-community/snapser-byosnaps/pkg/http"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/otel"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
	closers    []func() error
}

const (
	idleTimeoutMultiplier = 2
	apiVersion            = "1.0.0"
)

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.DefaultConfig()
	otelCfg.EndpointURL = cfg.Observability.TracingEndpointURL
	otelCfg.Enabled = cfg.Observability.TraceEnabled
	otelCfg.ResourceAttributes["service.prefix"] = cfg.Service.Prefix
	if err := tracer.InitTracer(cfg.Service.Name, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	srv := &Server{}

	store, err := srv.gameStore(cfg)
	if err != nil {
		return nil, err
	}

	var profilesClient profiles.Client
	if cfg.Profiles.URL != "" {
		profilesClient = profiles.NewClient(cfg.Profiles.URL, headerKeys(cfg),
			httpclient.WithTimeout(cfg.Profiles.Timeout),
			httpclient.WithRetryCount(cfg.Profiles.RetryCount),
		)
	} else {
		logger.InfoContext(context.Background(), "profiles.url not set, profile updates are echoed back")
	}

	deps, err := Wire(cfg, game.NewService(store), profile.NewService(profilesClient))
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	srv.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return srv, nil
}

// Wire assembles everything the router needs except the game and profile
// backends, which the caller chooses.
func Wire(cfg *config.Config, gameService game.Service, profileService profile.Service) (Deps, error) {
	table, err := authzdomain.NewRouteTable(authzdomain.DefaultRoutes(cfg.Service.Prefix)...)
	if err != nil {
		return Deps{}, fmt.Errorf("invalid route table: %w", err)
	}

	doc, err := openapi.Build(openapi.Info{
		Title:       cfg.Service.Name,
		Description: "BYOSnap users API",
		Version:     apiVersion,
	}, table).JSON()
	if err != nil {
		return Deps{}, err
	}

	keys := headerKeys(cfg)
	appService := authzapp.NewService(authzdomain.NewDecider())
	rpcPath, rpcHandler := rpctransport.NewRouter(rpctransport.NewHandler(appService))

	return Deps{
		Handler:    NewHandler(gameService, profileService, keys),
		AppService: appService,
		Routes:     table,
		HeaderKeys: keys,
		OpenAPI:    doc,
		RPCPath:    rpcPath,
		RPCHandler: rpcHandler,
	}, nil
}

func (s *Server) gameStore(cfg *config.Config) (game.Store, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(context.Background(), "redis.url not set, using in-memory game store")
		return cache.NewMemoryGameStore(cfg.Redis.GameTTL), nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	s.closers = append(s.closers, redisClient.Close)

	logger.InfoContext(context.Background(), "using redis game store", slog.Int("pool_size", cfg.Redis.PoolSize))
	return cache.NewGameStore(redisClient, cfg.Redis.GameTTL), nil
}

func headerKeys(cfg *config.Config) authzdomain.HeaderKeys {
	return authzdomain.HeaderKeys{
		Gateway:  cfg.Auth.HeaderKeys.Gateway,
		AuthType: cfg.Auth.HeaderKeys.AuthType,
		UserID:   cfg.Auth.HeaderKeys.UserID,
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logger.WarnContext(ctx, "failed to close resource", slog.String("error", err.Error()))
		}
	}
	return nil
}
