// Package view owns the display mode of each heatmap level and re-renders
// the chart when the mode changes.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
)

// SnapshotProvider returns the snapshot currently being served.
type SnapshotProvider interface {
	Current() *pipeline.Snapshot
}

// Button is one of the mode toggle controls shown above a chart.
type Button struct {
	ID     string             `json:"id"`
	Label  string             `json:"label"`
	Mode   domain.DisplayMode `json:"mode"`
	Active bool               `json:"active"`
}

var buttonSpecs = []Button{
	{ID: "maxTempBtn", Label: "Max Temperature", Mode: domain.ModeMax},
	{ID: "minTempBtn", Label: "Min Temperature", Mode: domain.ModeMin},
	{ID: "showBothBtn", Label: "Show Both", Mode: domain.ModeBoth},
}

// Frame is the rendered state of a controller.
type Frame struct {
	Level      domain.Level
	Mode       domain.DisplayMode
	Buttons    []Button
	SVG        []byte
	SnapshotID uuid.UUID
	ETag       string
}

// Controller holds the display mode for one level. Mode changes and renders
// are serialized behind a single mutex.
type Controller struct {
	level     domain.Level
	renderer  render.Renderer
	snapshots SnapshotProvider
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu    sync.Mutex
	mode  domain.DisplayMode
	frame *Frame
}

// NewController creates a controller in the level's default mode.
func NewController(level domain.Level, renderer render.Renderer, snapshots SnapshotProvider, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	return &Controller{
		level:     level,
		renderer:  renderer,
		snapshots: snapshots,
		logger:    logger.With("level", int(level)),
		metrics:   metrics,
		mode:      level.DefaultMode(),
	}
}

// Level returns the level this controller drives.
func (c *Controller) Level() domain.Level { return c.level }

// Mode returns the active display mode.
func (c *Controller) Mode() domain.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Buttons returns the toggle controls for the level with the active one
// flagged.
func (c *Controller) Buttons() []Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buttons(c.mode)
}

// Select switches to mode and re-renders. Selecting the active mode does
// nothing and returns the current frame unchanged.
func (c *Controller) Select(ctx context.Context, mode domain.DisplayMode) (Frame, error) {
	lvl := strconv.Itoa(int(c.level))
	if err := c.level.Validate(mode); err != nil {
		c.metrics.ModeToggles.WithLabelValues(lvl, "invalid").Inc()
		return Frame{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == c.mode {
		c.metrics.ModeToggles.WithLabelValues(lvl, "noop").Inc()
		return c.current(ctx)
	}

	frame, err := c.render(ctx, mode)
	if err != nil {
		return Frame{}, err
	}
	c.logger.Info("display mode changed", "from", c.mode, "to", mode)
	c.mode = mode
	c.frame = &frame
	c.metrics.ModeToggles.WithLabelValues(lvl, "changed").Inc()
	return frame, nil
}

// Current returns the frame for the active mode, rendering it when the
// served snapshot has changed since the last render.
func (c *Controller) Current(ctx context.Context) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(ctx)
}

func (c *Controller) current(ctx context.Context) (Frame, error) {
	snap := c.snapshots.Current()
	if snap == nil {
		return Frame{}, domain.ErrNoSnapshot
	}
	if c.frame != nil && c.frame.SnapshotID == snap.ID {
		return *c.frame, nil
	}
	frame, err := c.render(ctx, c.mode)
	if err != nil {
		return Frame{}, err
	}
	c.frame = &frame
	return frame, nil
}

func (c *Controller) render(ctx context.Context, mode domain.DisplayMode) (Frame, error) {
	snap := c.snapshots.Current()
	if snap == nil {
		return Frame{}, domain.ErrNoSnapshot
	}
	out, err := c.renderer.Render(ctx, snap, c.level, mode)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("render failed", "mode", mode, "error", err)
		}
		return Frame{}, fmt.Errorf("render level %d in mode %s: %w", c.level, mode, err)
	}
	return Frame{
		Level:      c.level,
		Mode:       mode,
		Buttons:    c.buttons(mode),
		SVG:        out,
		SnapshotID: snap.ID,
		ETag:       render.CacheKey(snap, c.level, mode),
	}, nil
}

func (c *Controller) buttons(active domain.DisplayMode) []Button {
	var out []Button
	for _, b := range buttonSpecs {
		if c.level.Validate(b.Mode) != nil {
			continue
		}
		b.Active = b.Mode == active
		out = append(out, b)
	}
	return out
}

// Controllers holds one controller per level.
type Controllers map[domain.Level]*Controller

// NewControllers creates a controller for every level.
func NewControllers(renderer render.Renderer, snapshots SnapshotProvider, logger *slog.Logger, metrics *observability.Metrics) Controllers {
	cs := make(Controllers, len(domain.Levels))
	for _, l := range domain.Levels {
		cs[l] = NewController(l, renderer, snapshots, logger, metrics)
	}
	return cs
}

// Get returns the controller for a level.
func (cs Controllers) Get(l domain.Level) (*Controller, error) {
	c, ok := cs[l]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, l)
	}
	return c, nil
}
