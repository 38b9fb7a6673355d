package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

const (
	insertUserQuery        = `INSERT INTO users (username, email, first_name, last_name, hashed_password) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	getUserByUsernameQuery = `SELECT id, username, email, first_name, last_name, hashed_password, created_at FROM users WHERE username = $1`
)

type UserStore struct {
	DB *sqlx.DB
}

// Create inserts u and fills its generated columns. A taken username or email yields ErrDuplicateUser.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.DB.QueryRowxContext(ctx, insertUserQuery,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	if err := s.DB.GetContext(ctx, &u, getUserByUsernameQuery, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}
