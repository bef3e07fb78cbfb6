package service

import (
	"context"

	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/repository"
)

// ProgressService exposes per-user progress aggregates. All writes happen
// inside the session engine's finish transaction; this service only reads.
type ProgressService struct {
	repo *repository.ProgressRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(repo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

// ListByUser returns the user's progress rows across all quiz types.
func (s *ProgressService) ListByUser(ctx context.Context, userID int) ([]model.ProgressEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}
