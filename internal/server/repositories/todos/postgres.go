package todos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const todoColumns = `id, user_id, text, completed, completed_at, created_at, updated_at`

// PostgresRepository implements todo storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (` + todoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.OwnerID, todo.Text, todo.Completed, nullTime(todo.CompletedAt), todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return common.ErrorNotFound
		}
		return common.StoreError(err)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + ` FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	result := []*models.Todo{}
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, common.StoreError(err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + ` FROM todos
		WHERE id = $1 AND user_id = $2
	`
	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET text = $3, completed = $4, completed_at = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.OwnerID, todo.Text, todo.Completed, nullTime(todo.CompletedAt), todo.UpdatedAt)
	if err != nil {
		return common.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.StoreError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `
		DELETE FROM todos
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, common.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.StoreError(err)
	}
	return n, nil
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Todo, error) {
	item, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.StoreError(err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var (
		item        models.Todo
		completedAt sql.NullTime
	)
	if err := s.Scan(&item.ID, &item.OwnerID, &item.Text, &item.Completed, &completedAt, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		item.CompletedAt = &t
	}
	return &item, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
