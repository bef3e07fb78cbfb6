package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/finprep/certquiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// StatsWorker consumes completed-session events from Redis and folds them
// into the per-quiz-type global aggregates. The queue decouples aggregate
// maintenance from the finish transaction, so a slow or failing aggregate
// write never delays a user's result.
type StatsWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "stats_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; returns when ctx is
// cancelled, after flushing any buffered events.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	buffer := make([]model.StatsEvent, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		// Flush on size or age.
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.QuizTypeStatsQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Queue empty, loop back to check the flush timer
			}
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var event model.StatsEvent
		if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed stats event")
			continue
		}

		buffer = append(buffer, event)
	}
}

// flushSafe attempts a bulk upsert, then falls back to row-by-row with
// requeue on failure.
func (w *StatsWorker) flushSafe(ctx context.Context, batch []model.StatsEvent) {
	if err := w.bulkUpsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk upsert failed, attempting row-by-row recovery")
		w.fallbackUpsert(ctx, batch)
	}
}

// bulkUpsert folds a whole batch in one statement. Events for the same quiz
// type are pre-aggregated so the UNNEST rows conflict at most once each.
func (w *StatsWorker) bulkUpsert(ctx context.Context, batch []model.StatsEvent) error {
	type agg struct {
		attempts int64
		scoreSum float64
	}
	byType := make(map[int]*agg)
	for _, e := range batch {
		a, ok := byType[e.QuizTypeID]
		if !ok {
			a = &agg{}
			byType[e.QuizTypeID] = a
		}
		a.attempts++
		a.scoreSum += e.Score
	}

	ids := make([]int, 0, len(byType))
	attempts := make([]int64, 0, len(byType))
	sums := make([]float64, 0, len(byType))
	for id, a := range byType {
		ids = append(ids, id)
		attempts = append(attempts, a.attempts)
		sums = append(sums, a.scoreSum)
	}

	_, err := w.pool.Exec(ctx,
		`INSERT INTO quiz_type_stats (quiz_type_id, total_attempts, score_sum, updated_at)
		 SELECT u.quiz_type_id, u.total_attempts, u.score_sum, NOW()
		 FROM UNNEST($1::int[], $2::bigint[], $3::float8[]) AS u (quiz_type_id, total_attempts, score_sum)
		 ON CONFLICT (quiz_type_id) DO UPDATE SET
		   total_attempts = quiz_type_stats.total_attempts + EXCLUDED.total_attempts,
		   score_sum      = quiz_type_stats.score_sum + EXCLUDED.score_sum,
		   updated_at     = NOW()`,
		ids, attempts, sums,
	)
	return err
}

func (w *StatsWorker) fallbackUpsert(ctx context.Context, batch []model.StatsEvent) {
	requeueList := make([]model.StatsEvent, 0)

	for _, e := range batch {
		_, err := w.pool.Exec(ctx,
			`INSERT INTO quiz_type_stats (quiz_type_id, total_attempts, score_sum, updated_at)
			 VALUES ($1, 1, $2, NOW())
			 ON CONFLICT (quiz_type_id) DO UPDATE SET
			   total_attempts = quiz_type_stats.total_attempts + 1,
			   score_sum      = quiz_type_stats.score_sum + EXCLUDED.score_sum,
			   updated_at     = NOW()`,
			e.QuizTypeID, e.Score,
		)
		if err != nil {
			w.log.Error().Err(err).Int("quiz_type_id", e.QuizTypeID).Msg("Upsert failed, requeueing")
			requeueList = append(requeueList, e)
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *StatsWorker) requeue(ctx context.Context, events []model.StatsEvent) {
	pipe := w.rdb.Pipeline()
	for _, e := range events {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.QuizTypeStatsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue stats events. Data loss occurred.")
		return
	}
	w.log.Info().Int("count", len(events)).Msg("Requeued failed events back to Redis")
	// Back off so a hard-down database is not hammered.
	time.Sleep(2 * time.Second)
}

func (w *StatsWorker) shutdown(buffer []model.StatsEvent) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
