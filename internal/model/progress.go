package model

import "time"

// UserProgress is the durable per-user/per-quiz-type statistic row. It only
// ever accumulates; completed sessions fold into it exactly once.
type UserProgress struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	QuizTypeID      int        `json:"quiz_type_id"`
	TotalAttempts   int        `json:"total_attempts"`
	BestScore       float64    `json:"best_score"`
	LatestScore     float64    `json:"latest_score"`
	TotalCorrect    int        `json:"total_correct"`
	TotalQuestions  int        `json:"total_questions"`
	LastAttemptDate *time.Time `json:"last_attempt_date,omitempty"`
}

// ProgressEntry is a progress row joined with its quiz type for display.
type ProgressEntry struct {
	UserProgress
	QuizDisplayName string `json:"quiz_display_name"`
}
