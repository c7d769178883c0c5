package study_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/domain/srs"
	"github.com/phrazzld/hanzi-srs/internal/platform/clock"
	"github.com/phrazzld/hanzi-srs/internal/platform/logger"
	"github.com/phrazzld/hanzi-srs/internal/platform/memory"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/phrazzld/hanzi-srs/internal/store"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// flakyCardStore wraps the memory store and fails selected operations.
type flakyCardStore struct {
	*memory.CardStore
	failGet, failGetAll, failCreate, failPut bool
}

func unavailable(op string) error {
	return store.NewStoreError("card", op, "connection refused", store.ErrUnavailable)
}

func (s *flakyCardStore) Get(ctx context.Context, key string) (*domain.Card, error) {
	if s.failGet {
		return nil, unavailable("get")
	}
	return s.CardStore.Get(ctx, key)
}

func (s *flakyCardStore) GetAll(ctx context.Context, lvl string) ([]*domain.Card, error) {
	if s.failGetAll {
		return nil, unavailable("get_all")
	}
	return s.CardStore.GetAll(ctx, lvl)
}

func (s *flakyCardStore) Create(ctx context.Context, card *domain.Card) error {
	if s.failCreate {
		return unavailable("create")
	}
	return s.CardStore.Create(ctx, card)
}

func (s *flakyCardStore) Put(ctx context.Context, card *domain.Card) error {
	if s.failPut {
		return unavailable("put")
	}
	return s.CardStore.Put(ctx, card)
}

// updatingCardStore adds store.CardUpdater to flakyCardStore, counting the
// updates that went through it.
type updatingCardStore struct {
	*flakyCardStore
	updates int
}

func (s *updatingCardStore) Update(ctx context.Context, key string, fn store.CardUpdateFn) (*domain.Card, error) {
	s.updates++
	card, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	next, err := fn(card)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// brokenLookupStore fails every call.
type brokenLookupStore struct{}

func (brokenLookupStore) Increment(context.Context, string) (int, error) {
	return 0, store.NewStoreError("lookup", "increment", "connection refused", store.ErrUnavailable)
}

func (brokenLookupStore) Count(context.Context, string) (int, error) {
	return 0, store.NewStoreError("lookup", "count", "connection refused", store.ErrUnavailable)
}

type fixture struct {
	svc     study.Service
	cards   *flakyCardStore
	updater *updatingCardStore
	lookups store.LookupStore
	clock   *clock.Fixed
	logs    *logger.TestLogBuffer
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	opts     study.Options
	lookups  store.LookupStore
	updating bool
}

func withOptions(opts study.Options) fixtureOption {
	return func(c *fixtureConfig) { c.opts = opts }
}

func withLookups(l store.LookupStore) fixtureOption {
	return func(c *fixtureConfig) { c.lookups = l }
}

func withUpdatingStore() fixtureOption {
	return func(c *fixtureConfig) { c.updating = true }
}

func newFixture(t *testing.T, options ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{opts: study.DefaultOptions(), lookups: memory.NewLookupStore()}
	for _, o := range options {
		o(&cfg)
	}

	log, buf := logger.GetTestLogger(t)
	cards := &flakyCardStore{CardStore: memory.NewCardStore(log)}
	clk := clock.NewFixed(t0)

	f := &fixture{
		cards:   cards,
		lookups: cfg.lookups,
		clock:   clk,
		logs:    buf,
	}
	var cardStore store.CardStore = cards
	if cfg.updating {
		f.updater = &updatingCardStore{flakyCardStore: cards}
		cardStore = f.updater
	}
	f.svc = study.NewService(cardStore, cfg.lookups, srs.NewDefaultService(), clk, cfg.opts, log)
	return f
}

func word(key, lvl string) domain.Word {
	return domain.Word{Key: key, Level: lvl, Pinyin: "pīn", MeaningEN: "en", MeaningVI: "vi"}
}

func errorLogged(buf *logger.TestLogBuffer) bool {
	entries, err := buf.GetLogEntries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e["level"] == slog.LevelError.String() {
			return true
		}
	}
	return false
}

// saveFrictionCard looks key up past the friction threshold and saves it.
func saveFrictionCard(t *testing.T, f *fixture, key, lvl string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i <= domain.FrictionLookupThreshold; i++ {
		_, err := f.svc.RecordLookup(ctx, key)
		require.NoError(t, err)
	}
	res, err := f.svc.SaveWord(ctx, word(key, lvl))
	require.NoError(t, err)
	require.True(t, res.Card.Friction)
}
