// Package repomanager selects and opens the configured store and vends the
// repositories bound to it.
package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/sethvargo/go-retry"
)

type RepositoryManager interface {
	Users() users.Repository
	Todos() todos.Repository
	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// connectBackoff is a seam for tests.
var connectBackoff = func(timeout time.Duration) retry.Backoff {
	b := retry.NewExponential(250 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	return retry.WithMaxDuration(timeout, b)
}

// New opens the store named by cfg.StoreDriver, retrying the initial
// connection until cfg.StoreConnectTimeout elapses, then runs migrations.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	logger = logger.With("module", "repomanager", "driver", cfg.StoreDriver)

	var open func(ctx context.Context) (RepositoryManager, error)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		open = func(context.Context) (RepositoryManager, error) { return NewInMemoryRepositoryManager(), nil }
	case config.StorePostgres:
		open = func(ctx context.Context) (RepositoryManager, error) { return OpenPostgres(ctx, cfg.DatabaseDSN) }
	case config.StoreMongo:
		open = func(ctx context.Context) (RepositoryManager, error) {
			return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	m, err := connect(ctx, logger, connectBackoff(cfg.StoreConnectTimeout), open)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	logger.Info(ctx, "Store ready")
	return m, nil
}

func connect(ctx context.Context, logger logging.Logger, b retry.Backoff, open func(context.Context) (RepositoryManager, error)) (RepositoryManager, error) {
	var (
		m       RepositoryManager
		attempt int
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		var err error
		m, err = open(ctx)
		if err != nil {
			logger.Warn(ctx, "Store connection failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
