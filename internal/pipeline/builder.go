package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
)

// Source supplies the raw daily CSV.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Builder runs the load, aggregate and scale stages into a Snapshot.
type Builder struct {
	source  Source
	minYear int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a Builder. minYear is the first year kept at level 2.
func NewBuilder(source Source, minYear int, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{source: source, minYear: minYear, logger: logger, metrics: metrics}
}

// Build fetches the source and assembles a new Snapshot.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	defer func() { b.metrics.SnapshotBuildDuration.Observe(time.Since(start).Seconds()) }()

	rc, err := b.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, b.source.Name(), err)
	}
	return b.Assemble(data)
}

// Assemble parses raw CSV bytes into a Snapshot.
func (b *Builder) Assemble(data []byte) (*Snapshot, error) {
	records, report, err := domain.DecodeCSV(bytes.NewReader(data))
	b.observeReport(report)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.source.Name(), err)
	}

	sum := sha256.Sum256(data)
	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: domain.Now(),
		Source:   b.source.Name(),
		Digest:   hex.EncodeToString(sum[:]),
		Report:   report,
	}

	monthly := domain.Aggregate(records)
	snap.Level1 = NewLevelData(domain.Level1, monthly, BuildScales(domain.Level1, monthly, records))

	recent := domain.FilterFromYear(records, b.minYear)
	daily := domain.AggregateDaily(records, b.minYear)
	snap.Level2 = NewLevelData(domain.Level2, daily, BuildScales(domain.Level2, daily, recent))

	b.metrics.SnapshotMonths.WithLabelValues("1").Set(float64(len(monthly)))
	b.metrics.SnapshotMonths.WithLabelValues("2").Set(float64(len(daily)))
	return snap, nil
}

func (b *Builder) observeReport(report domain.LoadReport) {
	b.metrics.RecordsLoaded.Add(float64(report.Records))
	b.metrics.RowsDropped.Add(float64(len(report.DroppedRows)))
	for _, issue := range report.DroppedRows {
		b.logger.Warn("row dropped", "line", issue.Line, "value", issue.Value, "reason", issue.Reason)
	}
	for _, issue := range report.Malformed {
		b.metrics.MalformedFields.WithLabelValues(issue.Column).Inc()
		b.logger.Warn("malformed temperature treated as missing",
			"line", issue.Line,
			"column", issue.Column,
			"value", issue.Value,
			"reason", issue.Reason,
		)
	}
}
