package repository

import (
	"context"
	"time"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressRepository owns the user_progress rows. They accumulate completed
// session outcomes and are never rolled back.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// ApplyCompletion folds a completed session into the (user, quiz type)
// progress row as one atomic upsert. It runs inside the finish transaction so
// a session is never marked completed without its progress effect, and vice
// versa. A missing row is created lazily with the completion as its first
// data point.
func (r *ProgressRepository) ApplyCompletion(ctx context.Context, tx pgx.Tx, userID, quizTypeID int, score float64, correct, total int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_progress
		   (user_id, quiz_type_id, total_attempts, best_score, latest_score,
		    total_correct, total_questions, last_attempt_date)
		 VALUES ($1, $2, 1, $3, $3, $4, $5, $6)
		 ON CONFLICT (user_id, quiz_type_id) DO UPDATE SET
		   total_attempts    = user_progress.total_attempts + 1,
		   best_score        = GREATEST(user_progress.best_score, EXCLUDED.best_score),
		   latest_score      = EXCLUDED.latest_score,
		   total_correct     = user_progress.total_correct + EXCLUDED.total_correct,
		   total_questions   = user_progress.total_questions + EXCLUDED.total_questions,
		   last_attempt_date = EXCLUDED.last_attempt_date`,
		userID, quizTypeID, score, correct, total, time.Now())
	return err
}

// CreateBaseline inserts zeroed progress rows for a user across the given
// quiz types. Existing rows are left untouched.
func (r *ProgressRepository) CreateBaseline(ctx context.Context, userID int, quizTypeIDs []int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_progress (user_id, quiz_type_id)
		 SELECT $1, u.quiz_type_id FROM UNNEST($2::int[]) AS u (quiz_type_id)
		 ON CONFLICT (user_id, quiz_type_id) DO NOTHING`,
		userID, quizTypeIDs)
	return err
}

// ListByUser retrieves a user's progress rows joined with quiz type names.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int) ([]model.ProgressEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.user_id, p.quiz_type_id, p.total_attempts, p.best_score,
		        p.latest_score, p.total_correct, p.total_questions, p.last_attempt_date,
		        qt.display_name
		 FROM user_progress p
		 JOIN quiz_types qt ON qt.id = p.quiz_type_id
		 WHERE p.user_id = $1
		 ORDER BY qt.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ProgressEntry
	for rows.Next() {
		var e model.ProgressEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.QuizTypeID, &e.TotalAttempts, &e.BestScore,
			&e.LatestScore, &e.TotalCorrect, &e.TotalQuestions, &e.LastAttemptDate,
			&e.QuizDisplayName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
