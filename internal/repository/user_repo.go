package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"user_manager/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	countUsersSQL          = `SELECT count(*) FROM user`
	selectUsersSQL         = `SELECT id, username, email, password FROM user`
	selectUserByIDSQL      = `SELECT id, username, email, password FROM user WHERE id = ?`
	selectUserSummarySQL   = `SELECT id, email, username FROM user WHERE id = ?`
	selectUserConflictsSQL = `SELECT id, username, email, password FROM user WHERE email = ? OR username = ?`
	insertUserSQL          = `INSERT INTO user (id, username, email, password) VALUES (?, ?, ?, ?)`
	insertUsersPrefixSQL   = `INSERT INTO user (id, username, email, password) VALUES `
	updateUsernameSQL      = `UPDATE user SET username = ? WHERE id = ?`
	deleteUserSQL          = `DELETE FROM user WHERE id = ?`

	// keeps a single statement well under MySQL's 65535 placeholder limit
	insertBatchSize = 500
)

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// List returns every user in storage order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// GetByID fetches a full user row. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", id, err)
	}
	return &u, nil
}

// GetSummaryByID fetches a user without its password column. Returns (nil, nil) if not found.
func (r *UserRepository) GetSummaryByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserSummarySQL, id).Scan(&u.ID, &u.Email, &u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user summary %q: %w", id, err)
	}
	return &u, nil
}

// FindByEmailOrUsername returns all rows sharing the email or the username.
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserConflictsSQL, email, username)
	if err != nil {
		return nil, fmt.Errorf("select users by email %q or username %q: %w", email, username, err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Create inserts a single user with a caller-assigned id.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	if _, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.Email, u.Password); err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// CreateMany inserts users with multi-row statements inside one transaction
// and returns the number of rows written.
func (r *UserRepository) CreateMany(ctx context.Context, users []models.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	total := 0
	for start := 0; start < len(users); start += insertBatchSize {
		end := min(start+insertBatchSize, len(users))
		query, args := buildBulkInsert(users[start:end])

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("bulk insert users [%d:%d]: %w", start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected for users [%d:%d]: %w", start, end, err)
		}
		total += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk insert: %w", err)
	}
	return total, nil
}

// UpdateUsername changes only the username column.
func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	if _, err := r.db.ExecContext(ctx, updateUsernameSQL, username, id); err != nil {
		return fmt.Errorf("update username of %q: %w", id, err)
	}
	return nil
}

// Delete removes the row. Deleting an absent id is not an error.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteUserSQL, id); err != nil {
		return fmt.Errorf("delete user %q: %w", id, err)
	}
	return nil
}

func buildBulkInsert(users []models.User) (string, []any) {
	placeholders := make([]string, 0, len(users))
	args := make([]any, 0, len(users)*4)
	for _, u := range users {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, u.ID, u.Username, u.Email, u.Password)
	}
	return insertUsersPrefixSQL + strings.Join(placeholders, ", "), args
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	out := make([]models.User, 0, 16)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
