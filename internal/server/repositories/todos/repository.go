// Package todos declares the todo store contract and its PostgreSQL and
// in-memory implementations. Every operation is scoped to an owner.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a todo. todo.ID and todo.OwnerID must be set.
	Create(ctx context.Context, todo *models.Todo) error

	// ListByOwner returns the owner's todos, oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Todo, error)

	// Get returns one todo or common.ErrorNotFound when it does not exist
	// or belongs to someone else.
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// Update overwrites the mutable fields of an existing todo.
	Update(ctx context.Context, todo *models.Todo) error

	// Delete removes a todo and returns it as it was.
	Delete(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// DeleteByOwner removes every todo of ownerID and reports how many.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
