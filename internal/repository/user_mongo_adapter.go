package repository

import (
	"context"
	"errors"
	"fmt"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/repository/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserMongoAdapter implements domain.UserRepository on a MongoDB collection.
type UserMongoAdapter struct {
	coll *mongo.Collection
}

func NewUserMongoAdapter(coll *mongo.Collection) *UserMongoAdapter {
	return &UserMongoAdapter{coll: coll}
}

// EnsureIndexes enforces one account per email.
func (r *UserMongoAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *UserMongoAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	doc := models.UserDocument{
		ID:           primitive.NewObjectID(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewConflictError("An account with this email already exists.")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserMongoAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc models.UserDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &domain.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		IsAdmin:      doc.IsAdmin,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

var _ domain.UserRepository = (*UserMongoAdapter)(nil)
