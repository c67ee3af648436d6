package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/server"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/http/handler"
	"github.com/sifan077/LinkDesk/internal/http/session"
	"github.com/sifan077/LinkDesk/internal/infra/logger"
	infraNATS "github.com/sifan077/LinkDesk/internal/infra/nats"
	infraPostgres "github.com/sifan077/LinkDesk/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/LinkDesk/internal/infra/prometheus"
	infraRedis "github.com/sifan077/LinkDesk/internal/infra/redis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	codeFilterMinSize = 100_000
	codeFilterFPRate  = 0.001
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the click pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log.Info("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.App.Addr),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres, log)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, model.All()...); err != nil {
		return err
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to postgres")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("connected to redis")

	natsConn, js, err := infraNATS.Connect(cfg.NATS, log.Named("nats"))
	if err != nil {
		return err
	}
	defer natsConn.Drain()
	log.Info("connected to nats")

	urlRepo := repository.NewURLRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)
	clickRepo := repository.NewClickEventRepository(gormDB)
	statsRepo := repository.NewStatsRepository(pool)

	codeFilter, err := buildCodeFilter(ctx, urlRepo)
	if err != nil {
		return err
	}
	log.Info("short-code filter seeded")

	consumer := service.NewClickConsumer(js, log.Named("clicks"), clickRepo)
	if err := consumer.Start(ctx); err != nil {
		return err
	}
	pruner := service.NewClickPruner(log.Named("clicks"), clickRepo, cfg.Clicks.Retention, cfg.Clicks.PruneInterval)
	pruner.Start()
	defer pruner.Stop()

	registry := infraPrometheus.NewRegistry()
	metrics := infraPrometheus.NewMetrics(registry)
	if cfg.Prometheus.Enabled {
		promServer := infraPrometheus.NewServer(cfg.Prometheus, registry)
		go func() {
			log.Info("starting prometheus metrics server", zap.String("addr", promServer.Addr))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil {
				log.Warn("failed to close prometheus server", zap.Error(err))
			}
		}()
	}

	srv := server.New(server.Dependencies{
		Logger:         log,
		Config:         *cfg,
		Metrics:        metrics,
		URLs:           service.NewURLService(urlRepo, tagRepo, service.WithCodeFilter(codeFilter)),
		Tags:           service.NewTagService(tagRepo),
		Admins:         service.NewAdminService(adminRepo, service.NewBcryptHasher(0)),
		Stats:          service.NewStatService(statsRepo, urlRepo),
		Sessions:       session.NewStore(redisClient, cfg.Session.TTL),
		ClickPublisher: service.NewClickPublisher(js),
		ClickCounter:   clickRepo,
		HealthChecks: map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"nats": func(context.Context) error {
				if !natsConn.IsConnected() {
					return errors.New("nats: not connected")
				}
				return nil
			},
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.App.Addr))
		errCh <- srv.Listen(cfg.App.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	select {
	case <-consumer.Done():
	case <-shutdownCtx.Done():
		log.Warn("click consumer did not stop in time")
	}
	return nil
}

func buildCodeFilter(ctx context.Context, urls repository.URLRepository) (*service.CodeFilter, error) {
	total, err := urls.Count(ctx)
	if err != nil {
		return nil, err
	}
	expected := uint(max(total*2, codeFilterMinSize))
	filter := service.NewCodeFilter(expected, codeFilterFPRate)
	if _, err := service.SeedCodeFilter(ctx, urls, filter); err != nil {
		return nil, err
	}
	return filter, nil
}
