package model

import "time"

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// QuestionSource distinguishes seeded questions from LLM-generated ones.
type QuestionSource string

const (
	QuestionSourceSeed      QuestionSource = "seed"
	QuestionSourceGenerated QuestionSource = "generated"
)

// Question represents a single multiple-choice question. Rows are immutable
// once written.
type Question struct {
	ID              int            `json:"id"`
	QuizTypeID      int            `json:"quiz_type_id"`
	QuestionText    string         `json:"question_text"`
	OptionA         string         `json:"option_a"`
	OptionB         string         `json:"option_b"`
	OptionC         string         `json:"option_c"`
	OptionD         string         `json:"option_d"`
	CorrectOption   int            `json:"correct_option"` // 0..3
	Explanation     string         `json:"explanation"`
	Topic           string         `json:"topic,omitempty"`
	DifficultyLevel int            `json:"difficulty_level,omitempty"`
	Source          QuestionSource `json:"source"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Options returns the four option texts in order.
func (q *Question) Options() []string {
	return []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// QuestionView is a question as delivered to a quiz taker. The correct
// option and explanation are deliberately absent.
type QuestionView struct {
	QuestionID   int      `json:"question_id"`
	Order        int      `json:"order"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}
