package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"quiz-bank/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDatabaseAdapter_CreateUser(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewUserDatabaseAdapter(db)

	user := domain.NewUser("Ann", "ann@example.com", "hash", true)
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "Ann", "ann@example.com", "hash", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDatabaseAdapter_CreateUserDuplicate(t *testing.T) {
	for name, dbErr := range map[string]error{
		"postgres": &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
		"oracle":   errors.New("ORA-00001: unique constraint (QUIZ.USERS_EMAIL_UK) violated"),
	} {
		t.Run(name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			defer db.Close()
			repo := NewUserDatabaseAdapter(db)

			mock.ExpectExec("INSERT INTO users").WillReturnError(dbErr)

			err := repo.CreateUser(context.Background(), domain.NewUser("Ann", "ann@example.com", "hash", false))
			var domainErr *domain.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, domain.ErrConflict, domainErr.Code)
		})
	}
}

func TestUserDatabaseAdapter_GetUserByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewUserDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "is_admin", "created_at"}).
		AddRow("u1", "Ann", "ann@example.com", "hash", 1, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.email = ?")).WithArgs("ann@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, user.IsAdmin)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.email = ?")).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)
	user, err = repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}
