// Package server wires the diary together: storage pool, migrations,
// services and the HTTP API, and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/api"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
	"github.com/dmitrijs2005/gophdiary/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

const poolStatsInterval = time.Minute

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *storage.Gateway
	api     *api.Server
}

// NewApp opens the database, applies migrations when configured to and
// builds the services and the HTTP API on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	gw, err := storage.Open(ctx, c.DatabaseDSN, storage.Options{
		Driver:         c.DatabaseDriver,
		MaxOpenConns:   c.MaxOpenConns,
		AcquireTimeout: c.AcquireTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		_ = gw.Close()
		return nil, err
	}

	if c.MigrateOnStart {
		if err := m.RunMigrations(ctx, gw.DB()); err != nil {
			_ = gw.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Info(ctx, "Migrations applied", "driver", c.DatabaseDriver)
	}

	diary := services.NewDiaryService(gw, m, logger)
	tags := services.NewTagService(gw, m, logger)

	srv := api.NewServer(diary, tags, gw, api.Options{
		AllowedOrigins: c.AllowedOrigins,
		PageSize:       c.PageSize,
		WriteRateLimit: c.WriteRateLimit,
		WriteRateBurst: c.WriteRateBurst,
		MaxBodyBytes:   c.MaxBodyBytes,
	}, logger)

	return &App{config: c, logger: logger, storage: gw, api: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		signal.Stop(sigs)
		cancelFunc()
	}()
}

// reportPoolStats logs connection pool usage until ctx is done.
func (app *App) reportPoolStats(ctx context.Context) error {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := app.storage.DB().Stats()
			app.logger.Debug(ctx, "db pool",
				"open", st.OpenConnections,
				"in_use", st.InUse,
				"idle", st.Idle,
				"wait_count", st.WaitCount,
				"wait_duration", st.WaitDuration,
			)
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the rate limiter and the connection pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.api.Run(gctx, app.config.EndpointAddrHTTP, app.config.ShutdownTimeout)
	})
	g.Go(func() error {
		return app.reportPoolStats(gctx)
	})

	err := g.Wait()

	app.api.Close()
	if cerr := app.storage.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")

	return err
}
