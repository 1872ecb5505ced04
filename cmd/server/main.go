package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/infra"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/middleware"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/router"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger, dev: pretty, prod: JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Storage ──────────────────────────────────────────────────────────────
	// Redis is the default state store and always backs the job queue when
	// reachable. Other drivers run without receipt jobs if it is down.
	var rdb *redis.Client
	if cfg.StorageDriver == "redis" {
		if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else if cfg.RedisURL != "" {
		if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, receipt jobs disabled")
			rdb = nil
		}
	}

	store, err := openBlobStore(cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open state store")
	}
	state, err := service.NewState(ctx, repository.NewStateRepository(store))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load persisted state")
	}

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	var archiver service.BackupArchiver = infra.NewLocalArchiver(cfg.BackupArchivePath)
	if cfg.S3Enabled() {
		s3Archiver, err := infra.NewS3Archiver(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure S3 backup archive")
		}
		archiver = s3Archiver
	}

	var receipts service.ReceiptQueue
	if rdb != nil {
		receipts = worker.NewDispatcher(rdb)
	}

	svc := router.NewServices(cfg, state, receipts, archiver)

	// ── Workers ──────────────────────────────────────────────────────────────
	// Handlers are wired here (composition root) so the pool can reach the
	// ledger, the profile and the mailer.
	if rdb != nil {
		handlers := map[string]worker.Handler{
			worker.JobTypeReceipt: worker.NewReceiptWorker(svc.Ledger, svc.Profile, mailer, cfg.PDFStoragePath, cfg.Location()),
		}
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
		worker.StartDLQReplay(ctx, worker.ReplayConfig{
			RDB:   rdb,
			Queue: worker.QueueReceipt,
			Ready: func() bool { return mailer.BreakerState() != infra.CBOpen },
		})
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartPurge(ctx, 10*time.Minute)

	r := router.New(cfg, svc, state, rdb, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("driver", cfg.StorageDriver).Msgf("HF Frozen Food POS listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	cancel()
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

func openBlobStore(cfg *config.Config, rdb *redis.Client) (repository.BlobStore, error) {
	switch cfg.StorageDriver {
	case "redis":
		return repository.NewRedisBlobStore(rdb, cfg.KeyPrefix), nil
	case "postgres":
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresBlobStore(db, cfg.KeyPrefix), nil
	case "memory":
		log.Warn().Msg("memory storage: state is lost on restart")
		return repository.NewMemoryBlobStore(), nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}
