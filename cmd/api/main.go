package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srobertsphd/alano-club/api/routes"
	"github.com/srobertsphd/alano-club/internal/backups"
	"github.com/srobertsphd/alano-club/internal/friends"
	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/membertypes"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/internal/reports"
	"github.com/srobertsphd/alano-club/pkg/config"
	"github.com/srobertsphd/alano-club/pkg/db"
	"github.com/srobertsphd/alano-club/pkg/logger"
	"github.com/srobertsphd/alano-club/pkg/metrics"
	"github.com/srobertsphd/alano-club/pkg/migrate"
	pkgredis "github.com/srobertsphd/alano-club/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// redis only backs idempotency replay; the API stays up without it
	var redisClient *pkgredis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Warn(context.Background(), "redis unavailable, idempotency replay disabled")
			redisClient = nil
		}
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()

	svcs, err := buildServices(cfg, logg, dbClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, svcs),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, registry *prometheus.Registry) (routes.Services, error) {
	memberRepo := members.NewRepository(dbClient.DB())
	typeRepo := membertypes.NewRepository(dbClient.DB())
	methodRepo := paymentmethods.NewRepository(dbClient.DB())
	friendRepo := friends.NewRepository(dbClient.DB())
	paymentRepo := payments.NewRepository(dbClient.DB())

	memberSvc, err := members.NewService(members.ServiceParams{Repo: memberRepo, Logger: logg})
	if err != nil {
		return routes.Services{}, err
	}
	typeSvc, err := membertypes.NewService(membertypes.ServiceParams{Repo: typeRepo})
	if err != nil {
		return routes.Services{}, err
	}
	methodSvc, err := paymentmethods.NewService(paymentmethods.ServiceParams{Repo: methodRepo})
	if err != nil {
		return routes.Services{}, err
	}
	friendSvc, err := friends.NewService(friends.ServiceParams{Repo: friendRepo})
	if err != nil {
		return routes.Services{}, err
	}
	paymentSvc, err := payments.NewService(payments.ServiceParams{
		Tx:         dbClient,
		Repo:       paymentRepo,
		MemberRepo: memberRepo,
		MethodRepo: methodRepo,
		Logger:     logg,
		Metrics:    metrics.NewPaymentMetrics(registry),
	})
	if err != nil {
		return routes.Services{}, err
	}
	reportSvc, err := reports.NewService(reports.ServiceParams{
		MemberRepo:  memberRepo,
		PaymentRepo: paymentRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}
	backupSvc, err := backups.NewService(backups.ServiceParams{
		AppEnv: cfg.App.Env,
		DB:     cfg.DB,
		Backup: cfg.Backup,
		Logger: logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Members:        memberSvc,
		MemberTypes:    typeSvc,
		PaymentMethods: methodSvc,
		Friends:        friendSvc,
		Payments:       paymentSvc,
		Reports:        reportSvc,
		Backups:        backupSvc,
	}, nil
}
