package repomanager

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/mongostore"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
)

// MongoRepositoryManager vends MongoDB-backed repositories. Its migrations
// are index definitions.
type MongoRepositoryManager struct {
	store *mongostore.Store
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	s, err := mongostore.Connect(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	return &MongoRepositoryManager{store: s}, nil
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.store.Users() }
func (m *MongoRepositoryManager) Todos() todos.Repository { return m.store.Todos() }

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.store.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error  { return m.store.Ping(ctx) }
func (m *MongoRepositoryManager) Close(ctx context.Context) error { return m.store.Close(ctx) }
