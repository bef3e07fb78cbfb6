package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/finprep/certquiz-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// catalogCacheTTL bounds staleness of the cached quiz type catalog. The
// catalog only changes at seed time, so a short TTL is purely a safety net.
const catalogCacheTTL = 5 * time.Minute

// QuizTypeService serves the quiz type catalog with a Redis read-through
// cache. Cache failures degrade to direct database reads.
type QuizTypeService struct {
	repo *repository.QuizTypeRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewQuizTypeService creates a new QuizTypeService.
func NewQuizTypeService(repo *repository.QuizTypeRepository, rdb *redis.Client, log zerolog.Logger) *QuizTypeService {
	return &QuizTypeService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "quiz_type_service").Logger(),
	}
}

// List returns all quiz types, cached.
func (s *QuizTypeService) List(ctx context.Context) ([]model.QuizType, error) {
	key := config.CacheKey.QuizTypeListKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var types []model.QuizType
		if err := json.Unmarshal([]byte(cached), &types); err == nil {
			return types, nil
		}
		s.log.Warn().Msg("dropping undecodable catalog cache entry")
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("catalog cache read failed")
	}

	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quiz types: %w", err)
	}

	if payload, err := json.Marshal(types); err == nil {
		if err := s.rdb.Set(ctx, key, payload, catalogCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}

	return types, nil
}

// GetByID returns a single quiz type.
func (s *QuizTypeService) GetByID(ctx context.Context, id int) (*model.QuizType, error) {
	qt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizTypeNotFound
		}
		return nil, err
	}
	return qt, nil
}
