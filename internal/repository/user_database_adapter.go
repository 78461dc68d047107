package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/repository/models"
	"quiz-bank/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserDatabaseAdapter implements domain.UserRepository using sqlx.
type UserDatabaseAdapter struct {
	db *sqlx.DB
}

func NewUserDatabaseAdapter(db *sqlx.DB) domain.UserRepository {
	return &UserDatabaseAdapter{db: db}
}

func (r *UserDatabaseAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = util.NewULID()
	row := fromDomainUser(user)

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO users (id, name, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.Name, row.Email, row.PasswordHash, row.IsAdmin, row.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("An account with this email already exists.")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserDatabaseAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.User
	query := exec.Rebind(`SELECT u.id "id", u.name "name", u.email "email", u.password_hash "password_hash",
		u.is_admin "is_admin", u.created_at "created_at"
		FROM users u WHERE u.email = ?`)
	if err := exec.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&row), nil
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin != 0,
		CreatedAt:    m.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	return &models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      util.BoolToInt(u.IsAdmin),
		CreatedAt:    u.CreatedAt,
	}
}
