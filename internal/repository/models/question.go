package models

import (
	"database/sql"
	"time"
)

// Question is the row shape of the questions table.
type Question struct {
	ID               string         `db:"id"`
	Question         string         `db:"question"`
	Options          StringSlice    `db:"options_json"`
	QuestionImage    sql.NullString `db:"question_image"`
	CorrectAnswer    string         `db:"correct_answer"`
	Explanation      string         `db:"explanation"`
	VideoSolutionURL sql.NullString `db:"video_solution_url"`
	Subject          string         `db:"subject"`
	QuestionType     string         `db:"question_type"`
	Tags             StringSlice    `db:"tags_json"`
	CreatedAt        time.Time      `db:"created_at"`
}

// User is the row shape of the users table.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      int       `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}
