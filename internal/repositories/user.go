package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/petcarehub/petcare-api/internal/logger"
	"github.com/petcarehub/petcare-api/internal/models"
)

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given (already normalized) email,
// or nil when no such user exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT id, full_name, email, password_hash, role, is_approved, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	// Log with query in single line
	logger.Log.Infow("user read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetVetByID returns the user with the given id and the veterinarian role,
// or nil when no such user exists.
func (r *UserReadRepository) GetVetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT id, full_name, email, password_hash, role, is_approved, created_at
		FROM users
		WHERE id = $1 AND role = $2
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id, models.RoleVet)

	logger.Log.Infow("vet read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, models.RoleVet},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the stored record.
func (r *UserWriteRepository) Save(
	ctx context.Context, fullName, email, passwordHash, role string, isApproved bool,
) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (full_name, email, password_hash, role, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, full_name, email, password_hash, role, is_approved, created_at
	`
	args := []any{fullName, email, passwordHash, role, isApproved}

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user save",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{fullName, email, role, isApproved},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Approve flips the approval flag for the veterinarian with the given id.
// Returns the number of affected rows.
func (r *UserWriteRepository) Approve(ctx context.Context, id int64) (int64, error) {
	const query = `
		UPDATE users
		SET is_approved = TRUE
		WHERE id = $1 AND role = $2
	`
	args := []any{id, models.RoleVet}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("vet approve",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
