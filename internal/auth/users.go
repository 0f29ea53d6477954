package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, role Role) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type UserRepo struct{ DB *pgxpool.Pool }

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string, role Role) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at`,
		username, passwordHash, string(role),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, fmt.Errorf("%w: username already taken", apperr.ErrValidation)
		}
		return User{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username=$1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %s", apperr.ErrNotFound, username)
	}
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	return nil
}
