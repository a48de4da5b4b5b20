package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// SnapshotBuilder produces a fresh Snapshot from the source.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*Snapshot, error)
}

// Publisher forwards a newly installed snapshot downstream.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap *Snapshot) error
}

// Pipeline owns the current Snapshot. It builds one at startup and, when an
// interval is set, rebuilds on a ticker and swaps in the result whenever the
// source content changed.
type Pipeline struct {
	builder   SnapshotBuilder
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	interval  time.Duration

	current atomic.Pointer[Snapshot]
	ready   atomic.Bool
}

// New creates a Pipeline. publisher may be nil and interval may be zero to
// disable background refresh.
func New(b SnapshotBuilder, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		builder:   b,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// Current returns the installed snapshot, or nil before the first load.
func (p *Pipeline) Current() *Snapshot {
	return p.current.Load()
}

// CheckReadiness returns nil once a snapshot has been installed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot has been loaded yet")
	}
	return nil
}

// Load builds and installs the first snapshot. Startup fails on any error.
func (p *Pipeline) Load(ctx context.Context) error {
	snap, err := p.builder.Build(ctx)
	if err != nil {
		p.metrics.SnapshotBuilds.WithLabelValues("error").Inc()
		return err
	}
	p.install(ctx, snap)
	return nil
}

// Refresh rebuilds the snapshot and installs it if the source changed. The
// previous snapshot stays in place on error.
func (p *Pipeline) Refresh(ctx context.Context) (bool, error) {
	snap, err := p.builder.Build(ctx)
	if err != nil {
		p.metrics.SnapshotBuilds.WithLabelValues("error").Inc()
		return false, err
	}
	if cur := p.current.Load(); cur != nil && cur.Digest == snap.Digest {
		p.metrics.SnapshotBuilds.WithLabelValues("unchanged").Inc()
		p.logger.Debug("source unchanged", "snapshot_id", cur.ID, "digest", cur.Digest)
		return false, nil
	}
	p.install(ctx, snap)
	return true, nil
}

func (p *Pipeline) install(ctx context.Context, snap *Snapshot) {
	p.current.Store(snap)
	p.ready.Store(true)
	p.metrics.SnapshotBuilds.WithLabelValues("success").Inc()
	p.logger.Info("snapshot installed",
		"snapshot_id", snap.ID,
		"source", snap.Source,
		"records", snap.Report.Records,
		"dropped_rows", len(snap.Report.DroppedRows),
		"malformed_fields", len(snap.Report.Malformed),
		"level1_months", len(snap.Level1.Aggregates),
		"level2_months", len(snap.Level2.Aggregates),
	)

	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish aggregates failed", "error", err, "snapshot_id", snap.ID)
	}
}

// Run refreshes on every tick until the context is cancelled. It returns
// immediately when no interval is configured.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.logger.Info("source refresh disabled")
		return nil
	}
	p.logger.Info("source refresher started", "interval", p.interval)
	p.metrics.RefresherRunning.Set(1)
	defer p.metrics.RefresherRunning.Set(0)

	ticker := domain.Clock().NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("source refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}

		if !p.refreshWithBackoff(ctx) {
			return nil
		}
	}
}

// refreshWithBackoff retries a failed refresh with exponential backoff
// (200ms doubling to 5s). Returns false if the pipeline should stop.
func (p *Pipeline) refreshWithBackoff(ctx context.Context) bool {
	backoff := initialBackoff
	for {
		changed, err := p.Refresh(ctx)
		if err == nil {
			if changed {
				p.logger.Debug("source changed, snapshot replaced")
			}
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("refresh failed, keeping previous snapshot", "error", err, "retry_in", backoff)
		if !sleepWithContext(ctx, backoff) {
			return false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

// sleepWithContext mirrors retry.SleepWithContext but waits on the package
// clock, which tests replace with a fake to advance the backoff.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := domain.Clock().NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
