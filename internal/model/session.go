package model

import "time"

// SessionMode enumerates how a session delivers its questions.
type SessionMode string

const (
	SessionModeSegmented SessionMode = "segmented"
	SessionModeFull      SessionMode = "full"
)

// QuestionPool selects where a session's questions come from.
type QuestionPool string

const (
	QuestionPoolBank      QuestionPool = "bank"
	QuestionPoolGenerated QuestionPool = "generated"
)

// SegmentSize is the block size for segmented sessions, and the cap on the
// requested question count.
const SegmentSize = 10

// QuizSession is one user's attempt at a quiz type. A session moves from
// active to completed exactly once and is never deleted.
type QuizSession struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	QuizTypeID      int         `json:"quiz_type_id"`
	Mode            SessionMode `json:"mode"`
	TotalQuestions  int         `json:"total_questions"`
	CurrentQuestion int         `json:"current_question"`
	CorrectAnswers  int         `json:"correct_answers"`
	IsCompleted     bool        `json:"is_completed"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         *time.Time  `json:"end_time,omitempty"`
	ScorePercentage *float64    `json:"score_percentage,omitempty"`
}

// SessionQuestion is one ordered question assignment within a session.
// Answer fields stay NULL until the single allowed submission.
type SessionQuestion struct {
	ID         int        `json:"id"`
	SessionID  int        `json:"session_id"`
	QuestionID int        `json:"question_id"`
	Order      int        `json:"question_order"`
	UserAnswer *int       `json:"user_answer,omitempty"`
	IsCorrect  *bool      `json:"is_correct,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

// CreateSessionRequest is the payload for starting a session.
type CreateSessionRequest struct {
	QuizTypeID int    `json:"quiz_type_id" binding:"required,min=1"`
	Mode       string `json:"mode" binding:"required,oneof=segmented full"`
	Count      *int   `json:"count" binding:"omitempty,min=1"`
	Source     string `json:"source" binding:"omitempty,oneof=bank generated"`
}

// SubmitAnswerRequest is the payload for answering one question.
// ChosenOptionIndex is a pointer so that option 0 still satisfies "required";
// range checking happens in the session engine, not the binder.
type SubmitAnswerRequest struct {
	QuestionID        int  `json:"question_id" binding:"required,min=1"`
	ChosenOptionIndex *int `json:"chosen_option_index" binding:"required"`
}

// SessionStart is the response to a session creation.
type SessionStart struct {
	SessionID      int            `json:"session_id"`
	QuizTypeID     int            `json:"quiz_type_id"`
	Mode           SessionMode    `json:"mode"`
	TotalQuestions int            `json:"total_questions"`
	StartTime      time.Time      `json:"start_time"`
	FirstBlock     []QuestionView `json:"first_block"`
}

// AnswerResult is the outcome of a single answer submission.
type AnswerResult struct {
	IsCorrect         bool `json:"is_correct"`
	CumulativeCorrect int  `json:"cumulative_correct"`
	AnsweredCount     int  `json:"answered_count"`
	Total             int  `json:"total"`
}

// FinalResult is the outcome of finishing a session.
type FinalResult struct {
	SessionID int  `json:"session_id"`
	Score     int  `json:"score"`
	Correct   int  `json:"correct"`
	Total     int  `json:"total"`
	Passed    bool `json:"passed"`
}

// QuestionResult is the per-question detail in a completed session's report.
type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	Order         int    `json:"order"`
	QuestionText  string `json:"question_text"`
	UserAnswer    *int   `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     *bool  `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// SessionReport is the full post-completion report.
type SessionReport struct {
	SessionID   int              `json:"session_id"`
	QuizTypeID  int              `json:"quiz_type_id"`
	Score       int              `json:"score"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Passed      bool             `json:"passed"`
	PerQuestion []QuestionResult `json:"per_question"`
}

// HistoryEntry is one completed session in a user's history listing.
type HistoryEntry struct {
	SessionID       int         `json:"session_id"`
	QuizTypeID      int         `json:"quiz_type_id"`
	QuizDisplayName string      `json:"quiz_display_name"`
	Mode            SessionMode `json:"mode"`
	Score           float64     `json:"score"`
	Correct         int         `json:"correct"`
	Total           int         `json:"total"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
}
