// Package jobs runs periodic background work against the study service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
)

// DefaultRunTimeout bounds a single digest run.
const DefaultRunTimeout = 30 * time.Second

// Digest periodically logs how many cards are due at every level.
type Digest struct {
	studyService study.Service
	interval     time.Duration
	scheduler    *gocron.Scheduler
	logger       *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewDigest creates a digest job that runs every interval once started.
// A zero interval disables scheduling; RunOnce still works.
func NewDigest(studyService study.Service, interval time.Duration, logger *slog.Logger) *Digest {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for Digest")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Digest{
		studyService: studyService,
		interval:     interval,
		scheduler:    s,
		logger:       logger.With(slog.String("component", "due_digest")),
	}
}

// Start schedules the digest and returns immediately. The first run happens
// right away.
func (d *Digest) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}
	if d.interval <= 0 {
		d.logger.Info("due digest disabled")
		return nil
	}

	if _, err := d.scheduler.Every(d.interval).Do(d.run); err != nil {
		return fmt.Errorf("failed to schedule due digest: %w", err)
	}
	d.scheduler.StartAsync()
	d.started = true

	d.logger.Info("due digest scheduled", slog.Duration("interval", d.interval))
	return nil
}

// Stop halts the scheduler. Safe to call when the job never started.
func (d *Digest) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	d.scheduler.Stop()
	d.started = false
	d.logger.Info("due digest stopped")
}

func (d *Digest) run() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultRunTimeout)
	defer cancel()

	if _, err := d.RunOnce(ctx); err != nil {
		d.logger.Error("due digest failed", slog.String("error", err.Error()))
	}
}

// RunOnce computes analytics for every level and logs one line per level
// that has cards, followed by a summary line. It returns the analytics of
// the non-empty levels.
func (d *Digest) RunOnce(ctx context.Context) ([]domain.Analytics, error) {
	all, err := d.studyService.AllAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	var (
		nonEmpty []domain.Analytics
		totalDue int
	)
	for _, a := range all {
		if a.Total == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, a)
		totalDue += a.Due()

		d.logger.InfoContext(ctx, "due digest",
			slog.String("level", a.Level),
			slog.Int("due", a.Due()),
			slog.Int("new", a.New),
			slog.Int("learning", a.Learning),
			slog.Int("mastered", a.Mastered),
			slog.Int("total", a.Total))
	}

	d.logger.InfoContext(ctx, "due digest complete",
		slog.Int("levels", len(nonEmpty)),
		slog.Int("total_due", totalDue))

	return nonEmpty, nil
}
