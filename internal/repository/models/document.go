package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionDocument is the shape of a document in the questions collection.
type QuestionDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Question         string             `bson:"question"`
	Options          []string           `bson:"options"`
	QuestionImage    *string            `bson:"questionImage"`
	CorrectAnswer    string             `bson:"correctAnswer"`
	Explanation      string             `bson:"explanation"`
	VideoSolutionURL *string            `bson:"videoSolutionUrl"`
	Subject          string             `bson:"subject"`
	Type             string             `bson:"type"`
	Tags             []string           `bson:"tags"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// UserDocument is the shape of a document in the users collection.
type UserDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	IsAdmin      bool               `bson:"isAdmin"`
	CreatedAt    time.Time          `bson:"createdAt"`
}
