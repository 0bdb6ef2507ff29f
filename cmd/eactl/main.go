package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eadmin/internal/api"
	"eadmin/internal/config"
	"eadmin/internal/domain"
	"eadmin/internal/events"
	"eadmin/internal/export"
	"eadmin/internal/logging"
	"eadmin/internal/metrics"
	"eadmin/internal/querycache"
	"eadmin/internal/repository"
	"eadmin/internal/reservation"
	"eadmin/internal/service"
	"eadmin/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return fmt.Errorf("missing command")
	}

	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	a, cleanup, err := newApp(ctx, cfg, &logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return a.dispatch(ctx, args[0], args[1:])
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "eactl").Logger()

	return cfg, logger, closer, nil
}

// app holds the wired services of one CLI run.
type app struct {
	cfg    *config.Config
	out    io.Writer
	in     io.Reader
	logger *zerolog.Logger

	auth         *service.AuthService
	reservations *service.ReservationService
	spaces       *service.SpaceService
	users        *service.UserService
	schools      *service.SchoolService
	metrics      *service.MetricsService
	exporter     *export.Exporter
}

func newApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*app, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, closeStore, err := initSessionStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	cache, closeCache := initCache(ctx, cfg, logger)
	closers = append(closers, closeCache)

	bus := events.NewEventBus()
	bus.OnToast(func(t events.Toast) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", t.Level, t.Message)
	})

	sess := session.New(store, logging.Component(logger, "session"))
	a := wireApp(cfg, sess, cache, bus, logger)
	return a, cleanup, nil
}

// wireApp builds the API client and the services over an open session.
func wireApp(cfg *config.Config, sess *session.Session, cache *querycache.Cache, bus *events.EventBus, logger *zerolog.Logger) *app {
	var auth *service.AuthService
	client := api.NewClientFromConfig(cfg.API,
		api.WithTokenStore(sess),
		api.WithCache(cache),
		api.WithLogger(logging.Component(logger, "api-client")),
		api.WithUnauthorizedHandler(func() {
			if auth != nil {
				auth.HandleUnauthorized()
			}
		}),
	)

	svcLogger := logging.Component(logger, "service")
	auth = service.NewAuthService(client, sess, bus, cache, svcLogger)
	validator := reservation.NewValidator(reservation.RealClock{})

	return &app{
		cfg:          cfg,
		out:          os.Stdout,
		in:           os.Stdin,
		logger:       logger,
		auth:         auth,
		reservations: service.NewReservationService(client, auth, validator, bus, cache, svcLogger),
		spaces:       service.NewSpaceService(client, auth, bus, cache, svcLogger),
		users:        service.NewUserService(client, auth, bus, cache, svcLogger),
		schools:      service.NewSchoolService(client, auth, bus, cache, svcLogger),
		metrics:      service.NewMetricsService(client, auth, bus, cache, svcLogger),
		exporter:     export.NewExporter(cfg.Exports, cfg.Location(), logging.Component(logger, "export")),
	}
}

// initSessionStore opens the token store. The SQLite store falls back to
// memory when the file cannot be used.
func initSessionStore(cfg *config.Config, logger *zerolog.Logger) (domain.KeyValueStore, func(), error) {
	memory := repository.NewMemorySessionRepository()
	if cfg.Session.Backend == "memory" {
		return memory, func() {}, nil
	}

	db, err := repository.NewSQLiteSessionRepository(cfg.Session.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Session.Path).Msg("session database unavailable, session will not persist")
		return memory, func() {}, nil
	}

	store := repository.NewFailoverSessionRepository(db, memory, logging.Component(logger, "session-store"))
	return store, func() { _ = db.Close() }, nil
}

func initCache(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*querycache.Cache, func()) {
	if !cfg.Cache.Enabled {
		return nil, func() {}
	}
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	cacheLogger := logging.Component(logger, "querycache")

	if client := initRedis(ctx, cfg, logger); client != nil {
		return querycache.New(repository.NewRedisCacheRepository(client), ttl, cacheLogger), func() { _ = repository.Close(client) }
	}
	return querycache.New(repository.NewMemoryCacheRepository(), ttl, cacheLogger), func() {}
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory cache")
		_ = client.Close()
		return nil
	}

	logger.Debug().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	metrics.Register()
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
