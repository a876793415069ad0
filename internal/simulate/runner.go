package simulate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/valuescore/internal/domain/model"
	"github.com/okian/valuescore/internal/domain/scoring"
	"github.com/okian/valuescore/pkg/logger"
)

// Run submits cfg.Submissions generated questionnaires one after another.
// The server holds a single session, so ratings and submit must not
// interleave between submissions. A score that differs from the local
// computation counts as a mismatch and fails the run.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if err := cfg.validate(); err != nil {
		return Stats{}, err
	}
	log := logger.Get().Named("simulate")
	start := time.Now()
	stats := Stats{MinScore: math.MaxInt}

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	sess, err := c.session(ctx)
	if err != nil {
		return stats, err
	}
	categories, err := model.NewCategorySet(sess.Categories)
	if err != nil {
		return stats, fmt.Errorf("%w: categories: %w", ErrUnexpected, err)
	}
	scorer, err := scoring.NewScorer(categories)
	if err != nil {
		return stats, err
	}

	log.Info(ctx, "starting simulation",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("categories", categories.Len()),
	)

	for i := 0; i < cfg.Submissions; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rs := generateRatings(categories.All())
		for _, cat := range categories.All() {
			p := rs[cat]
			if err := c.setRating(ctx, cat, model.FieldImportance, p.Importance); err != nil {
				return stats, err
			}
			if err := c.setRating(ctx, cat, model.FieldMatch, p.Match); err != nil {
				return stats, err
			}
		}

		receipt, err := c.submit(ctx)
		if err != nil {
			return stats, err
		}
		want := scorer.Total(rs)
		stats.Submitted++
		if receipt.Persisted {
			stats.Persisted++
		}
		stats.MinScore = min(stats.MinScore, receipt.TotalScore)
		stats.MaxScore = max(stats.MaxScore, receipt.TotalScore)
		if receipt.TotalScore != want {
			stats.Mismatches++
			log.Error(ctx, "score mismatch", logger.Int("submission", i), logger.Int("got", receipt.TotalScore), logger.Int("want", want))
		} else if cfg.Verbose {
			log.Info(ctx, "submitted", logger.Int("submission", i), logger.Int("total_score", receipt.TotalScore))
		}
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "simulation finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("persisted", stats.Persisted),
		logger.Int("mismatches", stats.Mismatches),
		logger.Any("duration", stats.Duration),
	)
	if stats.Mismatches > 0 {
		return stats, fmt.Errorf("%w: %d of %d submissions", ErrScoreMismatch, stats.Mismatches, stats.Submitted)
	}
	return stats, nil
}
