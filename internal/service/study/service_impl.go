package study

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/level"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/platform/clock"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"golang.org/x/sync/errgroup"
)

// Verify interface compliance at compile time
var _ Service = (*studyServiceImpl)(nil)

type studyServiceImpl struct {
	cards      store.CardStore
	lookups    store.LookupStore
	srsService srs.Service
	clock      clock.Clock
	opts       Options
	locks      keyLock
	logger     *slog.Logger
}

// NewService creates a study Service.
func NewService(
	cards store.CardStore,
	lookups store.LookupStore,
	srsService srs.Service,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if lookups == nil {
		panic("lookups cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FrictionThreshold < 0 {
		opts.FrictionThreshold = 0
	}

	return &studyServiceImpl{
		cards:      cards,
		lookups:    lookups,
		srsService: srsService,
		clock:      clk,
		opts:       opts,
		logger:     logger.With(slog.String("component", "study_service")),
	}
}

// SaveWord implements Service.SaveWord.
func (s *studyServiceImpl) SaveWord(ctx context.Context, word domain.Word) (*SaveResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word.Key = strings.TrimSpace(word.Key)
	if word.Key == "" {
		return nil, domain.ErrEmptyKey
	}

	parsed := level.Parse(word.Level)
	if parsed.Status == level.Defaulted {
		if s.opts.StrictLevels {
			log.Warn("unrecognized level rejected",
				slog.String("key", word.Key),
				slog.String("level", word.Level))
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, word.Level)
		}
		log.Warn("unrecognized level filed under default",
			slog.String("key", word.Key),
			slog.String("level", word.Level),
			slog.String("tag", parsed.Tag))
	}
	word.Level = parsed.Tag

	unlock := s.locks.Lock(word.Key)
	defer unlock()

	now := s.clock.Now()

	count, err := s.lookups.Count(ctx, word.Key)
	if err != nil {
		log.Error("failed to read lookup count, saving without friction",
			slog.String("key", word.Key),
			slog.String("error", err.Error()))
		count = 0
	}
	friction := count > s.opts.FrictionThreshold

	card, err := domain.NewCard(word, friction, now)
	if err != nil {
		return nil, err
	}

	err = s.cards.Create(ctx, card)
	switch {
	case err == nil:
		log.Info("card created",
			slog.String("key", card.Key),
			slog.String("level", card.Level),
			slog.Bool("friction", friction),
			slog.Int("lookups", count))
		return &SaveResult{Status: SaveStatusCreated, Card: card, LevelStatus: parsed.Status}, nil

	case store.IsDuplicateError(err):
		log.Debug("card already exists", slog.String("key", card.Key))
		existing, getErr := s.cards.Get(ctx, card.Key)
		if getErr != nil {
			existing = nil
		}
		return &SaveResult{Status: SaveStatusExists, Card: existing, LevelStatus: parsed.Status}, nil

	default:
		log.Error("failed to store card",
			slog.String("key", card.Key),
			slog.String("level", card.Level),
			slog.String("error", err.Error()))
		return &SaveResult{Status: SaveStatusUnavailable, Card: card, LevelStatus: parsed.Status}, nil
	}
}

// RecordLookup implements Service.RecordLookup.
func (s *studyServiceImpl) RecordLookup(ctx context.Context, key string) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, domain.ErrEmptyKey
	}

	count, err := s.lookups.Increment(ctx, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record lookup",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return 0, nil
	}
	return count, nil
}

// LookupCount implements Service.LookupCount.
func (s *studyServiceImpl) LookupCount(ctx context.Context, key string) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, domain.ErrEmptyKey
	}

	count, err := s.lookups.Count(ctx, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read lookup count",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return 0, nil
	}
	return count, nil
}

// GetCard implements Service.GetCard.
func (s *studyServiceImpl) GetCard(ctx context.Context, key string) (*domain.Card, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrEmptyKey
	}
	return s.getCard(ctx, key)
}

// getCard maps every store failure to ErrCardNotFound, logging the ones that
// are not a plain miss.
func (s *studyServiceImpl) getCard(ctx context.Context, key string) (*domain.Card, error) {
	card, err := s.cards.Get(ctx, key)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load card",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, ErrCardNotFound
	}
	return card, nil
}

// Review implements Service.Review.
func (s *studyServiceImpl) Review(
	ctx context.Context,
	key string,
	quality domain.Quality,
) (*ReviewResult, error) {
	if !quality.Valid() {
		return nil, domain.ErrInvalidQuality
	}

	return s.update(ctx, key, "review", func(card *domain.Card) (*domain.Card, error) {
		return s.srsService.CalculateNextReview(card, quality, card.FrictionApplies(), s.clock.Now())
	})
}

// ReviewRating implements Service.ReviewRating.
func (s *studyServiceImpl) ReviewRating(
	ctx context.Context,
	key string,
	rating domain.Rating,
) (*ReviewResult, error) {
	quality, err := rating.Quality()
	if err != nil {
		return nil, err
	}
	return s.Review(ctx, key, quality)
}

// Postpone implements Service.Postpone.
func (s *studyServiceImpl) Postpone(ctx context.Context, key string, days int) (*ReviewResult, error) {
	if days < 1 {
		return nil, srs.ErrInvalidDays
	}

	return s.update(ctx, key, "postpone", func(card *domain.Card) (*domain.Card, error) {
		return s.srsService.PostponeReview(card, days, s.clock.Now())
	})
}

// update runs a read-modify-write on the card for key under its lock.
func (s *studyServiceImpl) update(
	ctx context.Context,
	key string,
	operation string,
	fn func(card *domain.Card) (*domain.Card, error),
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrEmptyKey
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	var (
		updated *domain.Card
		putErr  error
	)
	if updater, ok := s.cards.(store.CardUpdater); ok {
		// The store locks the card against other processes for the
		// duration of fn.
		var fnErr error
		_, err := updater.Update(ctx, key, func(card *domain.Card) (*domain.Card, error) {
			updated, fnErr = fn(card)
			return updated, fnErr
		})
		switch {
		case fnErr != nil:
			return nil, fnErr
		case err != nil && updated == nil:
			if !store.IsNotFoundError(err) {
				log.Error("failed to load card",
					slog.String("key", key),
					slog.String("error", err.Error()))
			}
			return nil, ErrCardNotFound
		}
		putErr = err
	} else {
		card, err := s.getCard(ctx, key)
		if err != nil {
			return nil, err
		}
		updated, err = fn(card)
		if err != nil {
			return nil, err
		}
		putErr = s.cards.Put(ctx, updated)
	}

	if err := putErr; err != nil {
		log.Error("failed to persist card update",
			slog.String("operation", operation),
			slog.String("key", key),
			slog.String("error", err.Error()))
		return &ReviewResult{Status: ReviewStatusUnpersisted, Card: updated}, nil
	}

	log.Debug("card updated",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Int("interval", updated.Interval),
		slog.Int("repetitions", updated.Repetitions),
		slog.Float64("easiness_factor", updated.EasinessFactor))
	return &ReviewResult{Status: ReviewStatusSaved, Card: updated}, nil
}

// levelCards loads the cards of one level, degrading to none on failure.
func (s *studyServiceImpl) levelCards(ctx context.Context, tag string) []*domain.Card {
	cards, err := s.cards.GetAll(ctx, tag)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load level cards",
			slog.String("level", tag),
			slog.String("error", err.Error()))
		return []*domain.Card{}
	}
	return cards
}

func (s *studyServiceImpl) resolveLevel(lvl string) (string, error) {
	parsed := level.Parse(lvl)
	if parsed.Status == level.Defaulted && s.opts.StrictLevels {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLevel, lvl)
	}
	return parsed.Tag, nil
}

// DueQueue implements Service.DueQueue.
func (s *studyServiceImpl) DueQueue(ctx context.Context, lvl string) ([]*domain.Card, error) {
	tag, err := s.resolveLevel(lvl)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return srs.DueQueue(s.levelCards(ctx, tag), now), nil
}

// Analytics implements Service.Analytics.
func (s *studyServiceImpl) Analytics(ctx context.Context, lvl string) (domain.Analytics, error) {
	tag, err := s.resolveLevel(lvl)
	if err != nil {
		return domain.Analytics{}, err
	}
	now := s.clock.Now()
	return srs.Classify(tag, s.levelCards(ctx, tag), now), nil
}

// AllAnalytics implements Service.AllAnalytics. Levels are loaded
// concurrently against a single clock reading.
func (s *studyServiceImpl) AllAnalytics(ctx context.Context) ([]domain.Analytics, error) {
	tags := level.All()
	out := make([]domain.Analytics, len(tags))
	now := s.clock.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i := i
		tag := tag
		g.Go(func() error {
			out[i] = srs.Classify(tag, s.levelCards(gctx, tag), now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
