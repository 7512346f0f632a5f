package todos

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// MemoryRepository keeps todos in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Todo
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.Todo)}
}

func (r *MemoryRepository) Create(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[todo.ID]; exists {
		return common.ErrorDuplicateIdentifier
	}
	r.items[todo.ID] = cloneTodo(todo)
	return nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Todo{}
	for _, t := range r.items {
		if t.OwnerID == ownerID {
			result = append(result, cloneTodo(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID, id string) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return cloneTodo(t), nil
}

func (r *MemoryRepository) Update(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[todo.ID]
	if !ok || t.OwnerID != todo.OwnerID {
		return common.ErrorNotFound
	}
	r.items[todo.ID] = cloneTodo(todo)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	delete(r.items, id)
	return t, nil
}

func (r *MemoryRepository) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.items {
		if t.OwnerID == ownerID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func cloneTodo(t *models.Todo) *models.Todo {
	c := *t
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}
