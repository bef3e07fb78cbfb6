package repository

import (
	"context"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access. The question bank is
// read-only from the session engine's perspective; the only writes are
// seed-time inserts and accepted generated questions.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// SelectIDs returns up to limit question ids for a quiz type, ordered by
// ascending id. The ascending-id order is the session engine's deterministic
// selection policy; the resulting sequence becomes the session's fixed
// question order.
func (r *QuestionRepository) SelectIDs(ctx context.Context, quizTypeID, limit int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM questions
		 WHERE quiz_type_id = $1 AND source = $2
		 ORDER BY id ASC
		 LIMIT $3`,
		quizTypeID, model.QuestionSourceSeed, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (quiz_type_id, question_text, option_a, option_b, option_c, option_d,
		                        correct_option, explanation, topic, difficulty_level, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		q.QuizTypeID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectOption, q.Explanation, q.Topic, q.DifficultyLevel, q.Source,
	).Scan(&q.ID, &q.CreatedAt)
}

// InsertGenerated inserts accepted generated questions inside the session
// creation transaction and returns their ids in insertion order.
func (r *QuestionRepository) InsertGenerated(ctx context.Context, tx pgx.Tx, questions []model.Question) ([]int, error) {
	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		var id int
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_type_id, question_text, option_a, option_b, option_c, option_d,
			                        correct_option, explanation, topic, difficulty_level, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING id`,
			q.QuizTypeID, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
			q.CorrectOption, q.Explanation, q.Topic, q.DifficultyLevel, model.QuestionSourceGenerated,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
