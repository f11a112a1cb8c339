package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/documents"
	"hrportal/internal/domain/government"
	"hrportal/internal/domain/leave"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/recruitment"
	"hrportal/internal/platform/config"
	cryptoutil "hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/gov"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/session"
	"hrportal/migrations"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Metrics *metrics.Collector
	Router  http.Handler

	sessions *session.RedisStore
}

// New connects to the database (and Redis when configured), applies
// migrations and seed data per config and assembles the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, DB: pool, Metrics: metrics.New()}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, MigrationSource(cfg)); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if _, err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		client, err := session.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = client
		app.sessions = session.NewRedisStore(client)
		sessions = app.sessions
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("crypto: %w", err)
	}

	auditSvc := audit.New(pool)
	coreStore := core.NewStore(pool)
	app.Router = NewRouter(cfg, logger, Services{
		Auth:       auth.NewService(auth.NewStore(pool), sessions, crypto, cfg.JWTSecret, cfg.SessionTTL),
		Core:       core.NewService(coreStore, auditSvc),
		Documents:  documents.NewService(documents.NewStore(pool), auditSvc),
		Payroll:    payroll.NewService(payroll.NewStore(pool), auditSvc),
		Leave:      leave.NewService(leave.NewStore(pool), auditSvc),
		Jobs:       recruitment.NewService(recruitment.NewStore(pool), auditSvc),
		Dashboard:  dashboard.NewService(dashboard.NewStore(pool)),
		Government: government.NewService(gov.FromConfig(cfg.Gov), coreStore, auditSvc, app.Metrics),
		Audit:      auditSvc,
		Metrics:    app.Metrics,
		Ready:      app.ready,
	})
	return app, nil
}

// MigrationSource is MIGRATIONS_DIR when set, otherwise the embedded schema.
func MigrationSource(cfg config.Config) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

func (a *App) ready(ctx context.Context) error {
	if err := a.DB.Ping(ctx); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if a.sessions != nil {
		if err := a.sessions.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         a.Config.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("hr portal listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
