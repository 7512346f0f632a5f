package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts uint64) retry.Backoff {
	return retry.WithMaxRetries(attempts, retry.NewConstant(time.Millisecond))
}

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory, StoreConnectTimeout: time.Second}

	m, err := New(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	require.IsType(t, &InMemoryRepositoryManager{}, m)

	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Todos())
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close(context.Background()))
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{StoreDriver: "sqlite"}

	_, err := New(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "sqlite"`)
}

func TestConnect_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	m, err := connect(context.Background(), logging.Nop(), fastBackoff(5), func(context.Context) (RepositoryManager, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("not yet")
		}
		return NewInMemoryRepositoryManager(), nil
	})

	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Equal(t, 3, calls)
}

func TestConnect_GivesUp(t *testing.T) {
	calls := 0
	_, err := connect(context.Background(), logging.Nop(), fastBackoff(2), func(context.Context) (RepositoryManager, error) {
		calls++
		return nil, errors.New("refused")
	})

	require.EqualError(t, err, "refused")
	assert.Equal(t, 3, calls, "first attempt plus two retries")
}

func TestConnect_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := connect(ctx, logging.Nop(), retry.NewConstant(time.Hour), func(context.Context) (RepositoryManager, error) {
		return nil, errors.New("refused")
	})
	require.Error(t, err)
}
