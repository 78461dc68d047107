package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/repository/models"
	"quiz-bank/internal/util"

	"github.com/jmoiron/sqlx"
)

// Column aliases are quoted so Oracle returns lowercase names that match the db tags.
const questionColumns = `q.id "id",
	q.question "question",
	q.options_json "options_json",
	q.question_image "question_image",
	q.correct_answer "correct_answer",
	q.explanation "explanation",
	q.video_solution_url "video_solution_url",
	q.subject "subject",
	q.question_type "question_type",
	q.tags_json "tags_json",
	q.created_at "created_at"`

// QuestionDatabaseAdapter implements domain.QuestionRepository on Postgres or Oracle via sqlx.
// Tags are stored twice: as ordered JSON on the row and one row per tag in
// question_tags for filtering.
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
	tm domain.TransactionManager
}

func NewQuestionDatabaseAdapter(db *sqlx.DB, tm domain.TransactionManager) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db, tm: tm}
}

func (a *QuestionDatabaseAdapter) Create(ctx context.Context, q *domain.Question) error {
	q.ID = util.NewULID()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	row := fromDomainQuestion(q)

	return a.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, a.db)
		query := exec.Rebind(`INSERT INTO questions
			(id, question, options_json, question_image, correct_answer, explanation,
			 video_solution_url, subject, question_type, tags_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if _, err := exec.ExecContext(ctx, query,
			row.ID, row.Question, row.Options, row.QuestionImage, row.CorrectAnswer, row.Explanation,
			row.VideoSolutionURL, row.Subject, row.QuestionType, row.Tags, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
		return insertTags(ctx, exec, row.ID, q.Tags)
	})
}

func (a *QuestionDatabaseAdapter) Update(ctx context.Context, q *domain.Question) error {
	row := fromDomainQuestion(q)

	return a.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, a.db)
		query := exec.Rebind(`UPDATE questions SET
			question = ?, options_json = ?, question_image = ?, correct_answer = ?, explanation = ?,
			video_solution_url = ?, subject = ?, question_type = ?, tags_json = ?
			WHERE id = ?`)
		res, err := exec.ExecContext(ctx, query,
			row.Question, row.Options, row.QuestionImage, row.CorrectAnswer, row.Explanation,
			row.VideoSolutionURL, row.Subject, row.QuestionType, row.Tags, row.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.NewQuestionNotFoundError(q.ID)
		}

		if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM question_tags WHERE question_id = ?`), row.ID); err != nil {
			return fmt.Errorf("failed to clear question tags: %w", err)
		}
		return insertTags(ctx, exec, row.ID, q.Tags)
	})
}

func insertTags(ctx context.Context, exec DBTX, questionID string, tags []string) error {
	query := exec.Rebind(`INSERT INTO question_tags (question_id, tag) VALUES (?, ?)`)
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, err := exec.ExecContext(ctx, query, questionID, tag); err != nil {
			return fmt.Errorf("failed to insert question tag %q: %w", tag, err)
		}
	}
	return nil
}

func (a *QuestionDatabaseAdapter) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)
	var row models.Question
	query := exec.Rebind(`SELECT ` + questionColumns + ` FROM questions q WHERE q.id = ?`)
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&row), nil
}

func (a *QuestionDatabaseAdapter) Find(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)

	var conds []string
	var args []interface{}
	if filter.Subject != "" {
		conds = append(conds, "q.subject = ?")
		args = append(args, filter.Subject)
	}
	if filter.Type != "" {
		conds = append(conds, "q.question_type = ?")
		args = append(args, filter.Type)
	}
	if filter.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM question_tags t WHERE t.question_id = q.id AND t.tag = ?)")
		args = append(args, filter.Tag)
	}

	query := `SELECT ` + questionColumns + ` FROM questions q`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY q.created_at DESC, q.id DESC"

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (a *QuestionDatabaseAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:               m.ID,
		Question:         m.Question,
		Options:          []string(m.Options),
		QuestionImage:    util.NullStringToPtr(m.QuestionImage),
		CorrectAnswer:    m.CorrectAnswer,
		Explanation:      m.Explanation,
		VideoSolutionURL: util.NullStringToPtr(m.VideoSolutionURL),
		Subject:          m.Subject,
		Type:             domain.QuestionType(m.QuestionType),
		Tags:             []string(m.Tags),
		CreatedAt:        m.CreatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:               q.ID,
		Question:         q.Question,
		Options:          models.StringSlice(q.Options),
		QuestionImage:    util.PtrToNullString(q.QuestionImage),
		CorrectAnswer:    q.CorrectAnswer,
		Explanation:      q.Explanation,
		VideoSolutionURL: util.PtrToNullString(q.VideoSolutionURL),
		Subject:          q.Subject,
		QuestionType:     string(q.Type),
		Tags:             models.StringSlice(q.Tags),
		CreatedAt:        q.CreatedAt,
	}
}
