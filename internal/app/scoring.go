package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayscout/internal/adapters/observability"
	"stayscout/internal/domain"
)

// ScoringConfig tunes the batch orchestration. Concurrency 1 reproduces a
// strictly sequential run; higher values overlap scorer calls while the
// aggregate keeps batch order.
type ScoringConfig struct {
	BatchSize    int
	Concurrency  int
	BatchTimeout time.Duration
}

func (c ScoringConfig) withDefaults() ScoringConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 2 * time.Minute
	}
	return c
}

// ScoringService partitions evidence into consecutive fixed-size batches,
// invokes the scorer once per batch, and merges results in batch order.
type ScoringService struct {
	scorer domain.PreferenceScorer
	cfg    ScoringConfig
}

func NewScoringService(scorer domain.PreferenceScorer, cfg ScoringConfig) *ScoringService {
	return &ScoringService{scorer: scorer, cfg: cfg.withDefaults()}
}

// Partition splits evidence into ceil(len/size) consecutive batches whose
// concatenation reconstructs the input exactly.
func Partition(evidence []domain.ReviewEvidence, size int) [][]domain.ReviewEvidence {
	if size <= 0 || len(evidence) == 0 {
		if len(evidence) == 0 {
			return nil
		}
		size = len(evidence)
	}
	batches := make([][]domain.ReviewEvidence, 0, (len(evidence)+size-1)/size)
	for start := 0; start < len(evidence); start += size {
		end := start + size
		if end > len(evidence) {
			end = len(evidence)
		}
		batches = append(batches, evidence[start:end])
	}
	return batches
}

// ScoreAll scores every hotel's evidence against the user query. A failed
// batch loses only its own contribution: the aggregate keeps whatever the
// remaining batches returned, and the failures come back joined as the
// error so the caller can report them. Hotels the scorer omits are simply
// absent — no entry is invented for them.
func (s *ScoringService) ScoreAll(ctx context.Context, query string, evidence []domain.ReviewEvidence) ([]domain.ScoredHotel, error) {
	batches := Partition(evidence, s.cfg.BatchSize)
	if len(batches) == 0 {
		return []domain.ScoredHotel{}, nil
	}

	results := make([][]domain.ScoredHotel, len(batches))
	errs := make([]error, len(batches))
	sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))

	for i, batch := range batches {
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			break
		}
		go func(idx int, b []domain.ReviewEvidence) {
			defer sem.Release(1)
			bctx, cancel := context.WithTimeout(ctx, s.cfg.BatchTimeout)
			defer cancel()

			start := time.Now()
			scored, err := s.scorer.ScoreBatch(bctx, query, b)
			if err != nil {
				observability.ObserveBatch("failed")
				log.Warn().Err(err).
					Int("batch", idx).
					Int("hotels", len(b)).
					Msg("scoring batch failed, continuing without it")
				errs[idx] = fmt.Errorf("batch %d (%d hotels): %w", idx, len(b), err)
				return
			}
			observability.ObserveBatch("ok")
			log.Info().
				Int("batch", idx).
				Int("hotels", len(b)).
				Int("scored", len(scored)).
				Dur("duration", time.Since(start)).
				Msg("scoring batch done")
			results[idx] = scored
		}(i, batch)
	}

	// drain: acquiring the full weight waits for all in-flight batches
	if err := sem.Acquire(context.Background(), int64(s.cfg.Concurrency)); err == nil {
		sem.Release(int64(s.cfg.Concurrency))
	}

	aggregate := make([]domain.ScoredHotel, 0, len(evidence))
	for _, r := range results {
		aggregate = append(aggregate, r...)
	}
	return aggregate, errors.Join(errs...)
}
