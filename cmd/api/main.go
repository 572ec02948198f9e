package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hellohealth/intake-platform/internal/api/router"
	appconfig "github.com/hellohealth/intake-platform/internal/config"
	"github.com/hellohealth/intake-platform/internal/dialogue"
	"github.com/hellohealth/intake-platform/internal/finalize"
	"github.com/hellohealth/intake-platform/internal/http/handlers"
	"github.com/hellohealth/intake-platform/internal/notify"
	"github.com/hellohealth/intake-platform/internal/observability/metrics"
	"github.com/hellohealth/intake-platform/internal/roster"
	"github.com/hellohealth/intake-platform/internal/session"
	"github.com/hellohealth/intake-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting intake-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	table, cleanup, err := loadRoster(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load physician roster", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	store := newSessionStore(cfg, logger)

	sender, err := newEmailSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure email sender", "error", err)
		os.Exit(1)
	}
	notifier := notify.NewService(sender, cfg.BackOfficeEmail, cfg.ClinicName, logger)

	controller := dialogue.NewController(dialogue.Config{
		PhoneRegion: cfg.DefaultPhoneRegion,
		RosterNames: table.Physicians,
	}, logger)
	pipeline := finalize.New(roster.NewResolver(table), notifier, nil, cfg.ExternalCallTimeout, logger)

	m := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)
	conversations := handlers.NewConversationHandler(store, session.NewGuard(), controller, pipeline, m, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		Conversations:  conversations,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// loadRoster builds the roster table from Postgres when DATABASE_URL is set,
// otherwise from the CSV file. The returned cleanup closes the pool.
func loadRoster(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*roster.Table, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		ros, err := roster.NewPostgresSource(pool).Load(ctx)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("roster loaded from postgres", "physicians", ros.Len())
		return roster.NewTable(ros), pool.Close, nil
	}

	ros, err := roster.LoadCSV(cfg.RosterCSVPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("roster loaded from csv", "path", cfg.RosterCSVPath, "physicians", ros.Len())
	return roster.NewTable(ros), func() {}, nil
}

// newSessionStore picks Redis when configured, in-memory otherwise.
func newSessionStore(cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("sessions stored in memory")
		return session.NewMemoryStore()
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("sessions stored in redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL)
}

func newEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger), nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger), nil
	default:
		logger.Warn("email provider not configured, confirmations are logged only")
		return notify.NewStubEmailSender(logger), nil
	}
}
