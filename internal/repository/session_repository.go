package repository

import (
	"context"
	"time"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles quiz session and question assignment data access.
//
// Methods taking a pgx.Tx participate in the session engine's atomic
// sequences (create, submit, finish); the engine owns the transaction and
// serializes per-session mutation with a row lock on the session.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateWithAssignments inserts the session row and all of its ordered
// question assignments. Order indices are assigned 1..len(questionIDs)
// following the slice order, which is the engine's fixed selection order.
func (r *SessionRepository) CreateWithAssignments(ctx context.Context, tx pgx.Tx, s *model.QuizSession, questionIDs []int) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO quiz_sessions (user_id, quiz_type_id, session_type, total_questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, start_time`,
		s.UserID, s.QuizTypeID, s.Mode, s.TotalQuestions,
	).Scan(&s.ID, &s.StartTime)
	if err != nil {
		return err
	}

	orders := make([]int, len(questionIDs))
	for i := range questionIDs {
		orders[i] = i + 1
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO session_questions (session_id, question_id, question_order)
		 SELECT $1, u.question_id, u.question_order
		 FROM UNNEST($2::int[], $3::int[]) AS u (question_id, question_order)`,
		s.ID, questionIDs, orders,
	)
	return err
}

// GetByID retrieves a session by id.
func (r *SessionRepository) GetByID(ctx context.Context, id int) (*model.QuizSession, error) {
	return r.scanSession(r.pool.QueryRow(ctx, sessionSelect+` WHERE id = $1`, id))
}

// LockByID retrieves a session by id with a row lock, serializing all
// state-changing operations against the same session.
func (r *SessionRepository) LockByID(ctx context.Context, tx pgx.Tx, id int) (*model.QuizSession, error) {
	return r.scanSession(tx.QueryRow(ctx, sessionSelect+` WHERE id = $1 FOR UPDATE`, id))
}

const sessionSelect = `SELECT id, user_id, quiz_type_id, session_type, total_questions,
	current_question, correct_answers, is_completed, start_time, end_time, score_percentage
	FROM quiz_sessions`

func (r *SessionRepository) scanSession(row pgx.Row) (*model.QuizSession, error) {
	s := &model.QuizSession{}
	err := row.Scan(&s.ID, &s.UserID, &s.QuizTypeID, &s.Mode, &s.TotalQuestions,
		&s.CurrentQuestion, &s.CorrectAnswers, &s.IsCompleted, &s.StartTime, &s.EndTime, &s.ScorePercentage)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetAssignment returns the submitted answer (nil if unanswered) and the
// question's correct option for one assignment. pgx.ErrNoRows means the
// question is not part of the session.
func (r *SessionRepository) GetAssignment(ctx context.Context, tx pgx.Tx, sessionID, questionID int) (userAnswer *int, correctOption int, err error) {
	err = tx.QueryRow(ctx,
		`SELECT sq.user_answer, q.correct_option
		 FROM session_questions sq
		 JOIN questions q ON q.id = sq.question_id
		 WHERE sq.session_id = $1 AND sq.question_id = $2`,
		sessionID, questionID,
	).Scan(&userAnswer, &correctOption)
	return userAnswer, correctOption, err
}

// MarkAnswered records an answer on an assignment, guarded by the write-once
// predicate. Returns false when the row already carried an answer.
func (r *SessionRepository) MarkAnswered(ctx context.Context, tx pgx.Tx, sessionID, questionID, answer int, isCorrect bool) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE session_questions
		 SET user_answer = $1, is_correct = $2, answered_at = $3
		 WHERE session_id = $4 AND question_id = $5 AND user_answer IS NULL`,
		answer, isCorrect, time.Now(), sessionID, questionID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementCounters advances the session's answered-count by one and its
// correct-count by correctInc as a single atomic update, returning the new
// values.
func (r *SessionRepository) IncrementCounters(ctx context.Context, tx pgx.Tx, sessionID, correctInc int) (correct, answered int, err error) {
	err = tx.QueryRow(ctx,
		`UPDATE quiz_sessions
		 SET correct_answers = correct_answers + $1,
		     current_question = current_question + 1
		 WHERE id = $2
		 RETURNING correct_answers, current_question`,
		correctInc, sessionID,
	).Scan(&correct, &answered)
	return correct, answered, err
}

// MarkCompleted sets the terminal completion state with the final score.
func (r *SessionRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, sessionID int, score float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE quiz_sessions
		 SET is_completed = TRUE, end_time = $1, score_percentage = $2
		 WHERE id = $3`,
		time.Now(), score, sessionID)
	return err
}

// UnansweredBlock returns the next contiguous block of unanswered questions
// for a session, without correct answers or explanations.
func (r *SessionRepository) UnansweredBlock(ctx context.Context, sessionID, limit int) ([]model.QuestionView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sq.question_id, sq.question_order, q.question_text,
		        q.option_a, q.option_b, q.option_c, q.option_d
		 FROM session_questions sq
		 JOIN questions q ON q.id = sq.question_id
		 WHERE sq.session_id = $1 AND sq.user_answer IS NULL
		 ORDER BY sq.question_order ASC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.QuestionView
	for rows.Next() {
		var v model.QuestionView
		var a, b, c, d string
		if err := rows.Scan(&v.QuestionID, &v.Order, &v.QuestionText, &a, &b, &c, &d); err != nil {
			return nil, err
		}
		v.Options = []string{a, b, c, d}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListResults returns the per-question report rows for a session, including
// correct answers and explanations. Only called after completion.
func (r *SessionRepository) ListResults(ctx context.Context, sessionID int) ([]model.QuestionResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sq.question_id, sq.question_order, q.question_text,
		        sq.user_answer, q.correct_option, sq.is_correct, q.explanation
		 FROM session_questions sq
		 JOIN questions q ON q.id = sq.question_id
		 WHERE sq.session_id = $1
		 ORDER BY sq.question_order ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuestionResult
	for rows.Next() {
		var qr model.QuestionResult
		if err := rows.Scan(&qr.QuestionID, &qr.Order, &qr.QuestionText,
			&qr.UserAnswer, &qr.CorrectAnswer, &qr.IsCorrect, &qr.Explanation); err != nil {
			return nil, err
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

// HistoryByUser retrieves a user's completed sessions, newest first, with
// pagination.
func (r *SessionRepository) HistoryByUser(ctx context.Context, userID, page, perPage int) ([]model.HistoryEntry, int, error) {
	offset := (page - 1) * perPage

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_sessions WHERE user_id = $1 AND is_completed`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.quiz_type_id, qt.display_name, s.session_type,
		        s.score_percentage, s.correct_answers, s.total_questions,
		        s.start_time, s.end_time
		 FROM quiz_sessions s
		 JOIN quiz_types qt ON qt.id = s.quiz_type_id
		 WHERE s.user_id = $1 AND s.is_completed
		 ORDER BY s.end_time DESC
		 LIMIT $2 OFFSET $3`,
		userID, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.SessionID, &e.QuizTypeID, &e.QuizDisplayName, &e.Mode,
			&e.Score, &e.Correct, &e.Total, &e.StartTime, &e.EndTime); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
