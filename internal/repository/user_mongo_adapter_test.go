package repository

import (
	"context"
	"testing"
	"time"

	"quiz-bank/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserMongoAdapter_CreateUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserMongoAdapter(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := domain.NewUser("Ada", "ada@example.com", "hash", false)
		require.NoError(t, repo.CreateUser(context.Background(), user))
		assert.NotEmpty(t, user.ID)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserMongoAdapter(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		user := domain.NewUser("Ada", "ada@example.com", "hash", false)
		err := repo.CreateUser(context.Background(), user)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrConflict, domainErr.Code)
	})
}

func TestUserMongoAdapter_GetUserByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserMongoAdapter(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quizbank.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "passwordHash", Value: "hash"},
			{Key: "isAdmin", Value: true},
			{Key: "createdAt", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}))

		user, err := repo.GetUserByEmail(context.Background(), "ada@example.com")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, id.Hex(), user.ID)
		assert.True(t, user.IsAdmin)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserMongoAdapter(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quizbank.users", mtest.FirstBatch))

		user, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
