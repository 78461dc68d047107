package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/repository/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// QuestionMongoAdapter implements domain.QuestionRepository on a MongoDB collection.
type QuestionMongoAdapter struct {
	coll *mongo.Collection
}

func NewQuestionMongoAdapter(coll *mongo.Collection) *QuestionMongoAdapter {
	return &QuestionMongoAdapter{coll: coll}
}

// EnsureIndexes creates the indexes backing the list filters and sort.
func (a *QuestionMongoAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}
	return nil
}

func (a *QuestionMongoAdapter) Create(ctx context.Context, q *domain.Question) error {
	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	doc := toQuestionDocument(q)
	doc.ID = primitive.NewObjectID()
	doc.UpdatedAt = now

	if _, err := a.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	q.ID = doc.ID.Hex()
	return nil
}

func (a *QuestionMongoAdapter) Update(ctx context.Context, q *domain.Question) error {
	oid, err := primitive.ObjectIDFromHex(q.ID)
	if err != nil {
		return domain.NewQuestionNotFoundError(q.ID)
	}

	doc := toQuestionDocument(q)
	set := bson.M{
		"question":         doc.Question,
		"options":          doc.Options,
		"questionImage":    doc.QuestionImage,
		"correctAnswer":    doc.CorrectAnswer,
		"explanation":      doc.Explanation,
		"videoSolutionUrl": doc.VideoSolutionURL,
		"subject":          doc.Subject,
		"type":             doc.Type,
		"tags":             doc.Tags,
		"updatedAt":        time.Now().UTC(),
	}
	res, err := a.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewQuestionNotFoundError(q.ID)
	}
	return nil
}

// FindByID treats ids that are not ObjectID hex strings as unknown.
func (a *QuestionMongoAdapter) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc models.QuestionDocument
	if err := a.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return fromQuestionDocument(&doc), nil
}

func (a *QuestionMongoAdapter) Find(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	query := bson.M{}
	if filter.Subject != "" {
		query["subject"] = filter.Subject
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Tag != "" {
		// equality against an array field matches any element
		query["tags"] = filter.Tag
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := a.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.QuestionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(docs))
	for i := range docs {
		questions = append(questions, fromQuestionDocument(&docs[i]))
	}
	return questions, nil
}

func (a *QuestionMongoAdapter) Ping(ctx context.Context) error {
	return a.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func toQuestionDocument(q *domain.Question) *models.QuestionDocument {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.QuestionDocument{
		Question:         q.Question,
		Options:          q.Options,
		QuestionImage:    q.QuestionImage,
		CorrectAnswer:    q.CorrectAnswer,
		Explanation:      q.Explanation,
		VideoSolutionURL: q.VideoSolutionURL,
		Subject:          q.Subject,
		Type:             string(q.Type),
		Tags:             tags,
		CreatedAt:        q.CreatedAt,
	}
}

func fromQuestionDocument(d *models.QuestionDocument) *domain.Question {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Question{
		ID:               d.ID.Hex(),
		Question:         d.Question,
		Options:          d.Options,
		QuestionImage:    d.QuestionImage,
		CorrectAnswer:    d.CorrectAnswer,
		Explanation:      d.Explanation,
		VideoSolutionURL: d.VideoSolutionURL,
		Subject:          d.Subject,
		Type:             domain.QuestionType(d.Type),
		Tags:             tags,
		CreatedAt:        d.CreatedAt,
	}
}

var _ domain.QuestionRepository = (*QuestionMongoAdapter)(nil)
