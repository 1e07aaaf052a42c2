package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srobertsphd/alano-club/internal/backups"
	"github.com/srobertsphd/alano-club/internal/jobs"
	"github.com/srobertsphd/alano-club/pkg/config"
	"github.com/srobertsphd/alano-club/pkg/logger"
	"github.com/srobertsphd/alano-club/pkg/metrics"
	pkgredis "github.com/srobertsphd/alano-club/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "backup-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "backup-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// the lock only matters when more than one worker runs; a single
	// instance schedules fine without redis
	var locker jobs.Locker
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		locker = jobs.NewRedisLock(redisClient)
	}

	backupSvc, err := backups.NewService(backups.ServiceParams{
		AppEnv: cfg.App.Env,
		DB:     cfg.DB,
		Backup: cfg.Backup,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	registry := jobs.NewRegistry(jobs.RegistryParams{
		Locker:  locker,
		LockTTL: cfg.Backup.LockTTL,
		Logger:  logg,
		Metrics: metrics.NewJobMetrics(prometheus.DefaultRegisterer),
	})
	if err := registry.Register(cfg.Backup.Schedule, jobs.NewBackupJob(backupSvc)); err != nil {
		logg.Error(context.Background(), "failed to register backup job", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"schedule": cfg.Backup.Schedule,
	})
	logg.Info(ctx, "starting backup worker")

	registry.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Backup.Timeout)
	defer cancel()
	if err := registry.Stop(stopCtx); err != nil {
		logg.Error(ctx, "error stopping job registry", err)
	}

	logg.Info(ctx, "backup worker shutting down gracefully")
}
