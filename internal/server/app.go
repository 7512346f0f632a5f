// Package server wires the todokeeper process together: logger, store,
// services, the public HTTP API and the gRPC health endpoint. It also
// handles graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"

	gs "github.com/dmitrijs2005/todokeeper/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      repomanager.RepositoryManager
	httpServer *httpapi.Server
	health     *gs.HealthServer
}

// NewApp connects to the configured store and builds every component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	store, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	app, err := newApp(c, logger, store)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, store repomanager.RepositoryManager) (*App, error) {
	codec, err := auth.NewTokenCodec([]byte(c.SecretKey),
		auth.WithIssuer(c.TokenIssuer),
		auth.WithValidity(c.TokenValidityDuration),
	)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	as := services.NewAuthService(store.Users(), store.Todos(), auth.NewBcryptHasher(auth.PasswordCost), codec, logger)
	ts := services.NewTodoService(store.Todos(), logger)

	app := &App{
		config:     c,
		logger:     logger,
		store:      store,
		httpServer: httpapi.NewServer(c, logger, as, ts, store, metrics.New()),
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger, store, c.HealthProbeInterval)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the store. It returns the first server error, if any.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "Server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.httpServer.Run)
	if app.health != nil {
		start("grpc_health", app.health.Run)
	}

	wg.Wait()

	if err := app.store.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "Error closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return errors.Join(errs...)
}
