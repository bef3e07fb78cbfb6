package repository

import (
	"context"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizTypeRepository handles quiz type (certification exam definition) reads.
// Quiz types are seeded once and immutable afterwards.
type QuizTypeRepository struct {
	pool *pgxpool.Pool
}

// NewQuizTypeRepository creates a new QuizTypeRepository.
func NewQuizTypeRepository(pool *pgxpool.Pool) *QuizTypeRepository {
	return &QuizTypeRepository{pool: pool}
}

// List retrieves all quiz types ordered by name.
func (r *QuizTypeRepository) List(ctx context.Context) ([]model.QuizType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, display_name, total_questions, passing_score, time_limit, description, created_at
		 FROM quiz_types
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.QuizType
	for rows.Next() {
		var qt model.QuizType
		if err := rows.Scan(&qt.ID, &qt.Name, &qt.DisplayName, &qt.TotalQuestions, &qt.PassingScore, &qt.TimeLimit, &qt.Description, &qt.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, qt)
	}
	return types, rows.Err()
}

// GetByID retrieves a quiz type by id.
func (r *QuizTypeRepository) GetByID(ctx context.Context, id int) (*model.QuizType, error) {
	qt := &model.QuizType{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, display_name, total_questions, passing_score, time_limit, description, created_at
		 FROM quiz_types WHERE id = $1`, id,
	).Scan(&qt.ID, &qt.Name, &qt.DisplayName, &qt.TotalQuestions, &qt.PassingScore, &qt.TimeLimit, &qt.Description, &qt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return qt, nil
}

// ListIDs retrieves all quiz type ids. Used to pre-create baseline progress
// rows at signup.
func (r *QuizTypeRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM quiz_types ORDER BY id`)
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
