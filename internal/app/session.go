// Package app provides the rating session: the in-memory questionnaire state,
// score computation on submit, and the persisted history log.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/valuescore/internal/adapters/repository"
	"github.com/okian/valuescore/internal/domain/model"
	"github.com/okian/valuescore/internal/domain/scoring"
	"github.com/okian/valuescore/pkg/logger"
	"github.com/okian/valuescore/pkg/metrics"
)

// Receipt acknowledges a submission.
type Receipt struct {
	TotalScore int
	Entry      model.HistoryEntry
	// Persisted is false when storage is unavailable or the write failed.
	Persisted bool
	Message   string
}

// Session holds one user's ratings, the session date and the history log.
// Methods run one at a time; the mutex only serializes callers that share a
// session across goroutines, such as HTTP handlers.
type Session struct {
	mu sync.Mutex

	id         string
	categories model.CategorySet
	scorer     *scoring.Scorer
	store      repository.HistoryStore
	logger     logger.Logger
	now        func() time.Time

	ratings     model.RatingSet
	date        string
	history     []model.HistoryEntry
	showHistory bool
	// stale is set while the in-memory log could not be reconciled with
	// storage; writes are held back until a load succeeds.
	stale bool
}

// Option applies a configuration option to the Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	categories []model.Category
	ratings    model.RatingSet
	store      repository.HistoryStore
	logger     logger.Logger
	now        func() time.Time
	id         string
}

// WithCategories replaces the default twelve categories.
func WithCategories(categories []model.Category) Option {
	return func(c *sessionConfig) {
		if len(categories) > 0 {
			c.categories = categories
		}
	}
}

// WithInitialRatings seeds the rating state. Every pair must be in range and
// the keys must match the category set exactly.
func WithInitialRatings(rs model.RatingSet) Option {
	return func(c *sessionConfig) {
		c.ratings = rs
	}
}

// WithStore sets the history persistence. Without it the session keeps
// history in memory only.
func WithStore(store repository.HistoryStore) Option {
	return func(c *sessionConfig) {
		if store != nil {
			c.store = store
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *sessionConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used to stamp the session date.
func WithClock(now func() time.Time) Option {
	return func(c *sessionConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(c *sessionConfig) {
		if id != "" {
			c.id = id
		}
	}
}

// New builds a session. The date is fixed to the clock's UTC calendar day.
func New(opts ...Option) (*Session, error) {
	cfg := sessionConfig{
		categories: model.DefaultCategories(),
		store:      repository.NewHistoryRepository(nil),
		logger:     logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	categories, err := model.NewCategorySet(cfg.categories)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	scorer, err := scoring.NewScorer(categories)
	if err != nil {
		return nil, err
	}

	ratings := model.NewRatingSet(categories)
	if cfg.ratings != nil {
		if err := validateInitial(categories, cfg.ratings); err != nil {
			return nil, err
		}
		ratings = cfg.ratings.Clone()
	}

	if cfg.id == "" {
		cfg.id = uuid.New().String()
	}

	s := &Session{
		id:         cfg.id,
		categories: categories,
		scorer:     scorer,
		store:      cfg.store,
		logger:     cfg.logger.With(logger.String("session_id", cfg.id)),
		now:        cfg.now,
		ratings:    ratings,
		date:       model.FormatDate(cfg.now()),
		history:    []model.HistoryEntry{},
	}
	return s, nil
}

func validateInitial(categories model.CategorySet, rs model.RatingSet) error {
	if len(rs) != categories.Len() {
		return fmt.Errorf("%w: initial ratings cover %d of %d categories", model.ErrUnknownCategory, len(rs), categories.Len())
	}
	for c, p := range rs {
		if !categories.Contains(c) {
			return fmt.Errorf("%w: %q", model.ErrUnknownCategory, c)
		}
		if err := model.ValidateRating(p.Importance); err != nil {
			return fmt.Errorf("%s importance: %w", c, err)
		}
		if err := model.ValidateRating(p.Match); err != nil {
			return fmt.Errorf("%s match: %w", c, err)
		}
	}
	return nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Date returns the session date as YYYY-MM-DD.
func (s *Session) Date() string { return s.date }

// Categories returns the categories in display order.
func (s *Session) Categories() []model.Category { return s.categories.All() }

// Ratings returns a copy of the current ratings.
func (s *Session) Ratings() model.RatingSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings.Clone()
}

// History returns a copy of the in-memory history log.
func (s *Session) History() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneHistory(s.history)
}

// HistoryVisible reports whether the history view is shown.
func (s *Session) HistoryVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showHistory
}

// SetRating replaces one field of one category. Values outside [1,10],
// unknown categories and unknown fields are rejected without changing state.
func (s *Session) SetRating(ctx context.Context, c model.Category, f model.Field, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ratings.Set(c, f, value); err != nil {
		metrics.RecordRatingRejection(rejectionReason(err))
		s.logger.Debug(ctx, "rating rejected",
			logger.String("category", string(c)),
			logger.String("field", string(f)),
			logger.Int("value", value),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, model.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, model.ErrRatingOutOfRange):
		return "out_of_range"
	default:
		return "other"
	}
}

// Submit scores the current ratings, appends a snapshot entry to the
// history log and persists the whole log. The persisted log is re-read
// first so that a session which never showed history does not overwrite
// entries written earlier. When that read fails the entry is kept in memory
// only and the receipt reports it as not persisted.
func (s *Session) Submit(ctx context.Context) Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.scorer.Total(s.ratings)
	entry := model.HistoryEntry{
		Ratings:    s.ratings.Clone(),
		Date:       s.date,
		TotalScore: total,
	}

	loadErr := s.refreshLocked(ctx)
	s.history = append(s.history, entry)
	persisted := loadErr == nil && s.persistLocked(ctx)

	metrics.RecordSubmission(total)
	metrics.UpdateHistoryEntries(len(s.history))
	s.logger.Info(ctx, "questionnaire submitted",
		logger.Int("total_score", total),
		logger.Int("entries", len(s.history)),
		logger.Bool("persisted", persisted),
	)

	return Receipt{
		TotalScore: total,
		Entry:      model.HistoryEntry{Ratings: entry.Ratings.Clone(), Date: entry.Date, TotalScore: total},
		Persisted:  persisted,
		Message:    fmt.Sprintf("Your responses have been saved! Total Score: %d", total),
	}
}

// ToggleHistoryView flips the history visibility and returns the new state.
// Every transition to shown reloads the log from storage.
func (s *Session) ToggleHistoryView(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.showHistory {
		_ = s.refreshLocked(ctx)
	}
	s.showHistory = !s.showHistory
	return s.showHistory
}

// DeleteEntry removes the entry at index from the in-memory log and
// persists the result. An index outside the log is a no-op.
func (s *Session) DeleteEntry(ctx context.Context, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.history) {
		s.logger.Debug(ctx, "delete ignored", logger.Int("index", index), logger.Int("entries", len(s.history)))
		return false
	}

	next := make([]model.HistoryEntry, 0, len(s.history)-1)
	next = append(next, s.history[:index]...)
	next = append(next, s.history[index+1:]...)
	s.history = next

	persisted := s.persistLocked(ctx)
	metrics.RecordHistoryDelete()
	metrics.UpdateHistoryEntries(len(s.history))
	s.logger.Info(ctx, "history entry deleted",
		logger.Int("index", index),
		logger.Int("entries", len(s.history)),
		logger.Bool("persisted", persisted),
	)
	return true
}

// refreshLocked replaces the in-memory log with the persisted one. When no
// storage is configured the in-memory log is kept and nil is returned. Any
// other read failure keeps the in-memory log, marks it stale and is returned.
func (s *Session) refreshLocked(ctx context.Context) error {
	entries, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrUnavailable):
		return nil
	case err != nil:
		s.stale = true
		s.logger.Error(ctx, "history load failed; keeping in-memory log", logger.Error(err))
		return err
	}
	s.stale = false
	s.history = entries
	metrics.UpdateHistoryEntries(len(s.history))
	return nil
}

// persistLocked writes the full log and reports whether it reached storage.
// A stale log is never written, since it may lack entries held in storage.
func (s *Session) persistLocked(ctx context.Context) bool {
	if s.stale {
		s.logger.Warn(ctx, "history not saved; storage could not be read", logger.Int("entries", len(s.history)))
		return false
	}
	err := s.store.Save(ctx, s.history)
	switch {
	case err == nil:
		return true
	case errors.Is(err, repository.ErrUnavailable):
		return false
	default:
		s.logger.Error(ctx, "history save failed", logger.Error(err))
		return false
	}
}
