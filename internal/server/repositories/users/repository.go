// Package users declares the account store contract and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository persists users together with their session allow-list.
type Repository interface {
	// Create stores a new user. user.Email must already be normalized and
	// user.PasswordHash must already be hashed. An empty ID is assigned.
	// A taken email yields common.ErrorDuplicateIdentifier, decided by the
	// store's own uniqueness guarantee rather than a prior read.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail returns the user with its sessions or common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with its sessions or common.ErrorNotFound.
	// Malformed ids are reported as common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// AddSession appends a session to the user's allow-list.
	AddSession(ctx context.Context, userID string, session models.Session) error

	// RemoveSession removes every session matching filter. Removing nothing
	// is not an error.
	RemoveSession(ctx context.Context, userID string, filter models.SessionFilter) error

	// Delete removes the user and, with it, all of its sessions.
	Delete(ctx context.Context, userID string) error
}
