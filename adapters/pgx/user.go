package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/jokes"
)

func (a *Adapter) CreateUser(ctx context.Context, user *jokes.User) error {
	query := `INSERT INTO public.users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING created_at, updated_at`

	err := a.db.QueryRow(ctx, query, user.ID, user.Username, user.PasswordHash).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return jokes.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns the identity projection; the digest is not selected.
func (a *Adapter) GetUserByID(ctx context.Context, id string) (*jokes.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, jokes.ErrUserNotFound
	}

	q := `SELECT id, username, created_at, updated_at FROM public.users WHERE id = $1`

	user := &jokes.User{}
	err := a.db.QueryRow(ctx, q, id).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jokes.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return user, nil
}

func (a *Adapter) GetUserByUsername(ctx context.Context, username string) (*jokes.User, error) {
	q := `SELECT id, username, password_hash, created_at, updated_at FROM public.users WHERE username = $1`

	user := &jokes.User{}
	err := a.db.QueryRow(ctx, q, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jokes.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by username: %w", err)
	}
	return user, nil
}
