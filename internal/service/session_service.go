package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/finprep/certquiz-backend/internal/generator"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session engine errors. Each maps to a distinct API error code.
var (
	ErrQuizTypeNotFound       = errors.New("quiz type not found")
	ErrSessionNotFound        = errors.New("session not found")
	ErrNotSessionOwner        = errors.New("session belongs to another user")
	ErrSessionClosed          = errors.New("session is already completed")
	ErrAlreadyCompleted       = errors.New("session has already been finished")
	ErrSessionNotCompleted    = errors.New("session is not completed yet")
	ErrAnswerAlreadySubmitted = errors.New("answer already submitted for this question")
	ErrQuestionNotInSession   = errors.New("question is not part of this session")
	ErrInvalidAnswer          = errors.New("chosen option index out of range")
	ErrNotEnoughQuestions     = errors.New("not enough questions available")
)

// SessionService is the quiz session engine. It owns the transactions for
// all state-changing session operations; per-session serialization comes from
// a row lock taken on the session at the start of every mutation.
type SessionService struct {
	pool         *pgxpool.Pool
	rdb          *redis.Client
	sessionRepo  *repository.SessionRepository
	questionRepo *repository.QuestionRepository
	quizTypeRepo *repository.QuizTypeRepository
	progressRepo *repository.ProgressRepository
	generator    *generator.Client
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	pool *pgxpool.Pool,
	rdb *redis.Client,
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	quizTypeRepo *repository.QuizTypeRepository,
	progressRepo *repository.ProgressRepository,
	gen *generator.Client,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		pool:         pool,
		rdb:          rdb,
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		quizTypeRepo: quizTypeRepo,
		progressRepo: progressRepo,
		generator:    gen,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// Create starts a new quiz session. Question selection, session insert and
// assignment inserts happen in one transaction, so a session never exists
// without its full fixed question set. Generated questions are produced and
// validated before the transaction opens.
func (s *SessionService) Create(ctx context.Context, userID int, req model.CreateSessionRequest) (*model.SessionStart, error) {
	qt, err := s.quizTypeRepo.GetByID(ctx, req.QuizTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizTypeNotFound
		}
		return nil, fmt.Errorf("get quiz type: %w", err)
	}

	mode := model.SessionMode(req.Mode)
	count := EffectiveCount(mode, req.Count, qt.TotalQuestions)

	source := model.QuestionPool(req.Source)
	if source == "" {
		source = model.QuestionPoolBank
	}

	var generated []model.Question
	if source == model.QuestionPoolGenerated {
		candidates, err := s.generator.Generate(ctx, qt.DisplayName, count)
		if err != nil {
			return nil, err
		}
		generated = make([]model.Question, len(candidates))
		for i, c := range candidates {
			generated[i] = model.Question{
				QuizTypeID:    qt.ID,
				QuestionText:  c.QuestionText,
				OptionA:       c.Options[0],
				OptionB:       c.Options[1],
				OptionC:       c.Options[2],
				OptionD:       c.Options[3],
				CorrectOption: c.CorrectAnswer,
				Explanation:   c.Explanation,
			}
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var questionIDs []int
	if source == model.QuestionPoolGenerated {
		questionIDs, err = s.questionRepo.InsertGenerated(ctx, tx, generated)
		if err != nil {
			return nil, fmt.Errorf("insert generated questions: %w", err)
		}
	} else {
		questionIDs, err = s.questionRepo.SelectIDs(ctx, qt.ID, count)
		if err != nil {
			return nil, fmt.Errorf("select questions: %w", err)
		}
		if len(questionIDs) < count {
			return nil, ErrNotEnoughQuestions
		}
	}

	session := &model.QuizSession{
		UserID:         userID,
		QuizTypeID:     qt.ID,
		Mode:           mode,
		TotalQuestions: len(questionIDs),
	}
	if err := s.sessionRepo.CreateWithAssignments(ctx, tx, session, questionIDs); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	block, err := s.sessionRepo.UnansweredBlock(ctx, session.ID, BlockSize(mode, session.TotalQuestions))
	if err != nil {
		return nil, fmt.Errorf("load first block: %w", err)
	}

	s.log.Info().
		Int("session_id", session.ID).
		Int("user_id", userID).
		Int("quiz_type_id", qt.ID).
		Str("mode", string(mode)).
		Str("source", string(source)).
		Int("questions", session.TotalQuestions).
		Msg("session created")

	return &model.SessionStart{
		SessionID:      session.ID,
		QuizTypeID:     qt.ID,
		Mode:           mode,
		TotalQuestions: session.TotalQuestions,
		StartTime:      session.StartTime,
		FirstBlock:     block,
	}, nil
}

// GetBlock returns the next contiguous block of unanswered questions for an
// active session. An empty block means every question has been answered.
func (s *SessionService) GetBlock(ctx context.Context, sessionID, userID int) ([]model.QuestionView, error) {
	session, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return nil, ErrSessionClosed
	}
	return s.sessionRepo.UnansweredBlock(ctx, sessionID, BlockSize(session.Mode, session.TotalQuestions))
}

// SubmitAnswer records a single answer with write-once semantics. The whole
// operation runs under the session row lock: validate, grade against the
// stored correct option, persist the answer, and advance both counters
// atomically. A rejected submission leaves no trace.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, userID int, req model.SubmitAnswerRequest) (*model.AnswerResult, error) {
	choice := *req.ChosenOptionIndex
	if choice < 0 || choice >= model.OptionCount {
		return nil, ErrInvalidAnswer
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.lockOwned(ctx, tx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return nil, ErrSessionClosed
	}

	userAnswer, correctOption, err := s.sessionRepo.GetAssignment(ctx, tx, sessionID, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotInSession
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if userAnswer != nil {
		return nil, ErrAnswerAlreadySubmitted
	}

	isCorrect := choice == correctOption

	updated, err := s.sessionRepo.MarkAnswered(ctx, tx, sessionID, req.QuestionID, choice, isCorrect)
	if err != nil {
		return nil, fmt.Errorf("mark answered: %w", err)
	}
	if !updated {
		return nil, ErrAnswerAlreadySubmitted
	}

	correctInc := 0
	if isCorrect {
		correctInc = 1
	}
	correct, answered, err := s.sessionRepo.IncrementCounters(ctx, tx, sessionID, correctInc)
	if err != nil {
		return nil, fmt.Errorf("increment counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.AnswerResult{
		IsCorrect:         isCorrect,
		CumulativeCorrect: correct,
		AnsweredCount:     answered,
		Total:             session.TotalQuestions,
	}, nil
}

// Finish closes a session exactly once. Unanswered questions count as wrong:
// the score is computed from correct answers over the full question count.
// Completion and the progress fold-in commit together or not at all; the
// stats event is queued only after the commit succeeds.
func (s *SessionService) Finish(ctx context.Context, sessionID, userID int) (*model.FinalResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := s.lockOwned(ctx, tx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	score := Score(session.CorrectAnswers, session.TotalQuestions)

	if err := s.sessionRepo.MarkCompleted(ctx, tx, sessionID, float64(score)); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}
	if err := s.progressRepo.ApplyCompletion(ctx, tx, userID, session.QuizTypeID,
		float64(score), session.CorrectAnswers, session.TotalQuestions); err != nil {
		return nil, fmt.Errorf("apply progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.enqueueStatsEvent(ctx, session.QuizTypeID, float64(score))

	qt, err := s.quizTypeRepo.GetByID(ctx, session.QuizTypeID)
	if err != nil {
		return nil, fmt.Errorf("get quiz type: %w", err)
	}

	s.log.Info().
		Int("session_id", sessionID).
		Int("user_id", userID).
		Int("score", score).
		Msg("session finished")

	return &model.FinalResult{
		SessionID: sessionID,
		Score:     score,
		Correct:   session.CorrectAnswers,
		Total:     session.TotalQuestions,
		Passed:    score >= qt.PassingScore,
	}, nil
}

// Results returns the full report for a completed session, including correct
// answers and explanations for every question.
func (s *SessionService) Results(ctx context.Context, sessionID, userID int) (*model.SessionReport, error) {
	session, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted {
		return nil, ErrSessionNotCompleted
	}

	perQuestion, err := s.sessionRepo.ListResults(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	qt, err := s.quizTypeRepo.GetByID(ctx, session.QuizTypeID)
	if err != nil {
		return nil, fmt.Errorf("get quiz type: %w", err)
	}

	score := 0
	if session.ScorePercentage != nil {
		score = int(math.Round(*session.ScorePercentage))
	}

	return &model.SessionReport{
		SessionID:   session.ID,
		QuizTypeID:  session.QuizTypeID,
		Score:       score,
		Correct:     session.CorrectAnswers,
		Total:       session.TotalQuestions,
		Passed:      score >= qt.PassingScore,
		PerQuestion: perQuestion,
	}, nil
}

// History returns a page of the user's completed sessions, newest first.
func (s *SessionService) History(ctx context.Context, userID, page, perPage int) ([]model.HistoryEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return s.sessionRepo.HistoryByUser(ctx, userID, page, perPage)
}

// getOwned loads a session and enforces ownership for read paths.
func (s *SessionService) getOwned(ctx context.Context, sessionID, userID int) (*model.QuizSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// lockOwned loads a session under FOR UPDATE and enforces ownership for
// mutation paths.
func (s *SessionService) lockOwned(ctx context.Context, tx pgx.Tx, sessionID, userID int) (*model.QuizSession, error) {
	session, err := s.sessionRepo.LockByID(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// enqueueStatsEvent pushes a completed-session datapoint to the stats queue.
// Best effort: the session commit already happened, so a queue failure only
// costs one datapoint in the global aggregates.
func (s *SessionService) enqueueStatsEvent(ctx context.Context, quizTypeID int, score float64) {
	payload, err := json.Marshal(model.StatsEvent{QuizTypeID: quizTypeID, Score: score})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to marshal stats event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.QuizTypeStatsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Int("quiz_type_id", quizTypeID).Msg("failed to enqueue stats event")
	}
}
