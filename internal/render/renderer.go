package render

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// Renderer turns a snapshot into an encoded heatmap.
type Renderer interface {
	Render(ctx context.Context, snap *pipeline.Snapshot, level domain.Level, mode domain.DisplayMode) ([]byte, error)
}

// SVGRenderer builds a Scene and encodes it as SVG.
type SVGRenderer struct {
	layout  config.Layout
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSVGRenderer creates an SVGRenderer for a canvas layout.
func NewSVGRenderer(layout config.Layout, logger *slog.Logger, metrics *observability.Metrics) *SVGRenderer {
	return &SVGRenderer{layout: layout, logger: logger, metrics: metrics}
}

// Layout returns the canvas layout the renderer draws with.
func (r *SVGRenderer) Layout() config.Layout { return r.layout }

func (r *SVGRenderer) Render(ctx context.Context, snap *pipeline.Snapshot, level domain.Level, mode domain.DisplayMode) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrNoSnapshot
	}
	data, err := snap.Level(level)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scene, err := BuildScene(data, mode, r.layout)
	if err != nil {
		return nil, err
	}
	out := Encode(scene)

	lvl := strconv.Itoa(int(level))
	r.metrics.Renders.WithLabelValues(lvl, string(mode)).Inc()
	r.metrics.RenderDuration.WithLabelValues(lvl).Observe(time.Since(start).Seconds())
	r.logger.Debug("heatmap rendered",
		"snapshot_id", snap.ID,
		"level", int(level),
		"mode", mode,
		"cells", len(data.Aggregates),
		"bytes", len(out),
	)
	return out, nil
}
