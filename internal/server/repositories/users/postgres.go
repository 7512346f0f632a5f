package users

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository stores users in the users table and their sessions in
// the sessions table (cascading on user deletion).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return nil, common.ErrorDuplicateIdentifier
		}
		return nil, common.StoreError(err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, "id", id)
}

// findOne loads the user row and its sessions. Both reads share one
// read-only snapshot when the repository is bound to a *sql.DB.
func (r *PostgresRepository) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var user *models.User

	load := func(ctx context.Context, tx dbx.DBTX) error {
		u, err := selectUser(ctx, tx, column, value)
		if err != nil {
			return err
		}
		u.Sessions, err = selectSessions(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		user = u
		return nil
	}

	var err error
	if b, ok := r.db.(dbx.Beginner); ok {
		err = dbx.WithTx(ctx, b, dbx.ReadSnapshot, load)
	} else {
		err = load(ctx, r.db)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorStoreUnavailable) {
			return nil, err
		}
		return nil, common.StoreError(err)
	}
	return user, nil
}

func selectUser(ctx context.Context, db dbx.DBTX, column, value string) (*models.User, error) {
	// column is one of a fixed set chosen by this package
	query :=
		`SELECT id, email, password_hash, created_at FROM users
		 WHERE ` + column + ` = $1
		`

	u := &models.User{}
	err := db.QueryRowContext(ctx, query, value).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.StoreError(err)
	}
	return u, nil
}

func selectSessions(ctx context.Context, db dbx.DBTX, userID string) ([]models.Session, error) {
	query :=
		`SELECT purpose, token, created_at FROM sessions
		 WHERE user_id = $1
		 ORDER BY created_at
		`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.Purpose, &s.Token, &s.CreatedAt); err != nil {
			return nil, common.StoreError(err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}
	return sessions, nil
}

func (r *PostgresRepository) AddSession(ctx context.Context, userID string, session models.Session) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO sessions (user_id, purpose, token, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, token) DO NOTHING
		`

	_, err := r.db.ExecContext(ctx, query, userID, session.Purpose, session.Token, session.CreatedAt)
	if err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return common.ErrorNotFound
		}
		return common.StoreError(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveSession(ctx context.Context, userID string, filter models.SessionFilter) error {
	if _, err := uuid.Parse(userID); err != nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("DELETE FROM sessions WHERE user_id = $1")
	args := []any{userID}

	if filter.Token != "" {
		args = append(args, filter.Token)
		b.WriteString(" AND token = $" + strconv.Itoa(len(args)))
	}
	if filter.Purpose != "" {
		args = append(args, filter.Purpose)
		b.WriteString(" AND purpose = $" + strconv.Itoa(len(args)))
	}

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return common.StoreError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`DELETE FROM users
		 WHERE id = $1
		`

	res, err := r.db.ExecContext(ctx, query, userID)
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

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
