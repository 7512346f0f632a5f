package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var errDown = errors.New("connection refused")

type fixture struct {
	svc    *AuthService
	todos  *TodoService
	users  *users.MemoryRepository
	items  *todos.MemoryRepository
	codec  *auth.TokenCodec
	hasher *countingHasher
}

func newFixture(t *testing.T, logger logging.Logger) *fixture {
	t.Helper()
	if logger == nil {
		logger = logging.Nop()
	}
	codec, err := auth.NewTokenCodec([]byte(testSecret), auth.WithIssuer("todokeeper-test"))
	require.NoError(t, err)

	f := &fixture{
		users:  users.NewMemoryRepository(),
		items:  todos.NewMemoryRepository(),
		codec:  codec,
		hasher: &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)},
	}
	f.svc = NewAuthService(f.users, f.items, f.hasher, codec, logger)
	f.todos = NewTodoService(f.items, logger)
	return f
}

// countingHasher records how many verifications were performed.
type countingHasher struct {
	auth.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, hashed string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, hashed)
}

// failingUsers wraps a user repository and fails selected operations.
type failingUsers struct {
	users.Repository
	failFind       bool
	failAddSession bool
}

func (f *failingUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.failFind {
		return nil, common.StoreError(errDown)
	}
	return f.Repository.FindByEmail(ctx, email)
}

func (f *failingUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.failFind {
		return nil, common.StoreError(errDown)
	}
	return f.Repository.FindByID(ctx, id)
}

func (f *failingUsers) AddSession(ctx context.Context, userID string, s models.Session) error {
	if f.failAddSession {
		return common.StoreError(errDown)
	}
	return f.Repository.AddSession(ctx, userID, s)
}

// failingTodos fails DeleteByOwner.
type failingTodos struct {
	todos.Repository
}

func (failingTodos) DeleteByOwner(context.Context, string) (int64, error) {
	return 0, common.StoreError(errDown)
}
