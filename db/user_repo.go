package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cliniq/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository provides persistence operations for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an already-hashed password.
func (r *UserRepository) Create(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email required")
	}

	const q = `
INSERT INTO users (public_id, username, email, hashed_password)
VALUES ($1, $2, $3, $4)
RETURNING id, public_id, username, email, hashed_password, created_at;
`
	var u models.User
	err := r.db.QueryRowContext(ctx, q, uuid.New().String(), username, email, hashedPassword).
		Scan(&u.ID, &u.PublicID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user with the given username, or ErrUserNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
SELECT id, public_id, username, email, hashed_password, created_at
FROM users
WHERE username = $1;
`
	var u models.User
	err := r.db.QueryRowContext(ctx, q, username).
		Scan(&u.ID, &u.PublicID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user already holds the username or email.
func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, username, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
