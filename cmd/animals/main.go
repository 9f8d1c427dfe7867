// Command animals serves the is_animal endpoints.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formkit/modules/animals"
	"github.com/dmitrymomot/formkit/pkg/clientip"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/redis"
	"github.com/dmitrymomot/formkit/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("animals stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg animals.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithFormat(format),
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", "animals")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	store, err := animals.NewStorage(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []animals.Option{
		animals.WithLogger(log),
		animals.WithLimits(cfg.Limits),
		animals.WithMaxBodySize(cfg.MaxBodySize),
	}
	var checks []httpserver.Check

	resolver := clientip.New(cfg.TrustedIPHeaders...)
	if cfg.RateLimit.Capacity > 0 {
		limiter, check, closeStore, err := newLimiter(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		if check != nil {
			checks = append(checks, check)
		}
		opts = append(opts, animals.WithRateLimit(limiter, resolver.IP))
	}

	svc := animals.NewService(store, opts...)
	checks = append(checks, svc.Ready)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(resolver.Middleware)
	r.Use(requestid.AccessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Version", "0.2"))
	r.Use(middleware.Compress(5))

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, checks...))
	r.Mount("/", svc.Handle())

	log.InfoContext(ctx, "starting",
		slog.String("storage", cfg.StorageDriver),
		slog.Int64("max_part_size", cfg.Limits.MaxPartSize),
		slog.Int("max_parts", cfg.Limits.MaxParts),
		slog.Int("rate_limit", cfg.RateLimit.Capacity),
		slog.Bool("redis", cfg.Redis.Enabled()),
	)

	srv := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// newLimiter keeps buckets in Redis when it is configured and in memory otherwise.
func newLimiter(ctx context.Context, cfg animals.Config) (*ratelimiter.Bucket, httpserver.Check, func(), error) {
	if !cfg.Redis.Enabled() {
		store := ratelimiter.NewMemoryStore()
		bucket, err := ratelimiter.NewBucket(store, cfg.RateLimit)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return bucket, nil, store.Close, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	closeClient := func() { _ = client.Close() }

	bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client), cfg.RateLimit)
	if err != nil {
		closeClient()
		return nil, nil, nil, err
	}
	return bucket, redis.Healthcheck(client), closeClient, nil
}
