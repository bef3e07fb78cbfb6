package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrEmailExists signals a duplicate signup.
var ErrEmailExists = errors.New("email already registered")

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

// UserService handles account business logic.
type UserService struct {
	userRepo     *repository.UserRepository
	quizTypeRepo *repository.QuizTypeRepository
	progressRepo *repository.ProgressRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo *repository.UserRepository,
	quizTypeRepo *repository.QuizTypeRepository,
	progressRepo *repository.ProgressRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		quizTypeRepo: quizTypeRepo,
		progressRepo: progressRepo,
	}
}

// Signup creates a new account and pre-creates a zeroed progress row for
// every known quiz type. The unique index on email is the authority on
// duplicates; concurrent signups with the same email lose cleanly.
func (s *UserService) Signup(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	quizTypeIDs, err := s.quizTypeRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quiz types: %w", err)
	}
	if len(quizTypeIDs) > 0 {
		if err := s.progressRepo.CreateBaseline(ctx, user.ID, quizTypeIDs); err != nil {
			return nil, fmt.Errorf("create baseline progress: %w", err)
		}
	}

	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email string, checkPassword func(hash string) error) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := checkPassword(user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
