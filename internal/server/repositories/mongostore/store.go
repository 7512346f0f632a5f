// Package mongostore implements the user and todo repositories on MongoDB.
// Each user is one document whose tokens array is the session allow-list.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	todosCollection = "todos"
)

// Store owns the client and vends repositories bound to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepository
	todos  *TodoRepository
}

// Connect dials uri and pings the primary. It does not create indexes;
// call EnsureIndexes for that.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, common.StoreError(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, common.StoreError(err)
	}
	db := client.Database(database)
	return &Store{
		client: client,
		db:     db,
		users:  NewUserRepository(db.Collection(usersCollection)),
		todos:  NewTodoRepository(db.Collection(todosCollection)),
	}, nil
}

func (s *Store) Users() *UserRepository { return s.users }
func (s *Store) Todos() *TodoRepository { return s.todos }

// EnsureIndexes creates the unique email index and the todo owner index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := s.todos.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("todos indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return common.StoreError(err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return common.ErrorDuplicateIdentifier
	default:
		return common.StoreError(err)
	}
}
