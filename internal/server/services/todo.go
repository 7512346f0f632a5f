package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/ids"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
)

// MaxTodoTextLength bounds todo text, in bytes.
const MaxTodoTextLength = 4096

// TodoService manages todos on behalf of an authenticated owner.
type TodoService struct {
	todos  todos.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewTodoService(repo todos.Repository, logger logging.Logger) *TodoService {
	return &TodoService{
		todos:  repo,
		logger: logger.With("module", "todos"),
		now:    time.Now,
	}
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.NewValidationError("text", "must not be empty")
	}
	if len(text) > MaxTodoTextLength {
		return "", common.NewValidationError("text", "is too long")
	}
	return text, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID, text string) (*models.Todo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todo := &models.Todo{
		ID:        ids.New(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "Todo created", "user_id", ownerID, "todo_id", todo.ID)
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID)
}

// Get returns the owner's todo; ids that are malformed or belong to someone
// else are common.ErrorNotFound.
func (s *TodoService) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	if !ids.Valid(id) {
		return nil, common.ErrorNotFound
	}
	return s.todos.Get(ctx, ownerID, id)
}

func (s *TodoService) Update(ctx context.Context, ownerID, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Text != nil {
		text, err := normalizeText(*patch.Text)
		if err != nil {
			return nil, err
		}
		patch.Text = &text
	}

	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(todo, s.now().UTC())
	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	if !ids.Valid(id) {
		return nil, common.ErrorNotFound
	}
	return s.todos.Delete(ctx, ownerID, id)
}
