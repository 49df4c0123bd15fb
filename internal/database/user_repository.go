package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/pkg/models"
)

// UserRepository handles database operations for users.
// Passwords are kept as given; authentication belongs to the backend server.
type UserRepository struct {
	db *sqlx.DB
}

// ListUsers returns all users without their passwords
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT id, email, role FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// GetUser returns a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT id, email, role FROM users WHERE id = ?")
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", notFound(err))
	}
	return &user, nil
}

// CreateUser inserts a user; an empty role defaults to user
func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO users (email, password, role) VALUES (?, ?, ?) RETURNING id",
		strings.TrimSpace(u.Email), u.Password, u.Role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = id
	u.Password = ""
	return nil
}

// UpdateUser changes email and role, and the password when one is given
func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	query := "UPDATE users SET email = ?, role = ? WHERE id = ?"
	args := []interface{}{u.Email, u.Role, u.ID}
	if u.Password != "" {
		query = "UPDATE users SET email = ?, role = ?, password = ? WHERE id = ?"
		args = []interface{}{u.Email, u.Role, u.Password, u.ID}
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	u.Password = ""
	return nil
}

// DeleteUser removes a user and their progress and exams
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM user_vocabulaires WHERE user_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user progress: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM user_exams WHERE user_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user exams: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := checkAffected(res); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Login returns the user matching the credentials
func (r *UserRepository) Login(ctx context.Context, c models.Credentials) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT id, email, role FROM users WHERE email = ? AND password = ?")
	err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(c.Email), c.Password)
	if err != nil {
		if errors.Is(notFound(err), backend.ErrNotFound) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &user, nil
}

// Register creates a learner account
func (r *UserRepository) Register(ctx context.Context, c models.Credentials) (*models.User, error) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return nil, fmt.Errorf("failed to register: email and password are required")
	}
	user := &models.User{Email: c.Email, Password: c.Password, Role: models.RoleUser}
	if err := r.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return user, nil
}
