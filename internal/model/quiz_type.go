package model

import "time"

// QuizType is a certification exam definition. Rows are created at seed time
// and never mutated by session logic.
type QuizType struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	TotalQuestions int       `json:"total_questions"`
	PassingScore   int       `json:"passing_score"`
	TimeLimit      int       `json:"time_limit"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuizTypeStats holds global aggregates per quiz type, maintained by the
// stats worker.
type QuizTypeStats struct {
	QuizTypeID    int       `json:"quiz_type_id"`
	TotalAttempts int64     `json:"total_attempts"`
	ScoreSum      float64   `json:"score_sum"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatsEvent is one completed-session datapoint queued for the stats worker.
type StatsEvent struct {
	QuizTypeID int     `json:"quiz_type_id"`
	Score      float64 `json:"score"`
}
