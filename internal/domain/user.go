package domain

import (
	"context"
	"time"
)

// User is a local account used to obtain API tokens.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(name, email, passwordHash string, isAdmin bool) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	// CreateUser returns a CONFLICT error when the email is already registered.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByEmail returns (nil, nil) when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
