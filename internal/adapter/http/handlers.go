package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
	"github.com/couchcryptid/temperature-heatmap-service/internal/view"
)

const svgContentType = "image/svg+xml"

type indexPage struct {
	Levels   []domain.Level
	Snapshot *pipeline.Snapshot
}

type levelPage struct {
	Level   domain.Level
	Mode    domain.DisplayMode
	Buttons []view.Button
	Chart   template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, r, "index.html", indexPage{
		Levels:   domain.Levels,
		Snapshot: s.deps.Snapshots.Current(),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	frame, err := ctrl.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeHTML(w, r, "level.html", levelPage{
		Level:   frame.Level,
		Mode:    frame.Mode,
		Buttons: frame.Buttons,
		// The chart is produced by the SVG encoder, which escapes all text.
		Chart: template.HTML(frame.SVG), //nolint:gosec // trusted encoder output
	})
}

func (s *Server) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := domain.ParseDisplayMode(r.PathValue("mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := ctrl.Select(r.Context(), mode); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/level/%d", ctrl.Level()), http.StatusSeeOther)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := modeParam(r, ctrl.Mode())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := s.deps.Snapshots.Current()
	if snap == nil {
		s.writeError(w, r, domain.ErrNoSnapshot)
		return
	}

	etag := strconv.Quote(render.CacheKey(snap, ctrl.Level(), mode))
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out, err := s.deps.Renderer.Render(r.Context(), snap, ctrl.Level(), mode)
	if err != nil {
		w.Header().Del("ETag")
		s.writeError(w, r, err)
		return
	}
	writeSVG(w, out)
}

func (s *Server) handleCellChart(w http.ResponseWriter, r *http.Request) {
	snap, data, agg, err := s.cell(r, domain.Level2)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := modeParam(r, domain.ModeBoth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := data.Level.Validate(mode); err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.RenderDetail(&buf, agg, mode, s.deps.Layout); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(fmt.Sprintf("%s-cell-%s-%s", snap.ID, agg.Key, mode)))
	writeSVG(w, buf.Bytes())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.deps.Snapshots.Current()
	if snap == nil {
		s.writeError(w, r, domain.ErrNoSnapshot)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	level, err := domain.ParseLevel(r.PathValue("level"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, data, err := s.levelData(level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, toLevelDTO(snap, data))
}

// handleTooltip returns the hover instruction for a cell. On level 2 an x
// parameter selects a day inside the mini chart and a day without a record
// yields 204 so the client keeps its current tooltip. Without x, level 2
// shows the monthly mean behind the cell color.
func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	level, err := domain.ParseLevel(r.PathValue("level"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, data, agg, err := s.cell(r, level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctrl, err := s.deps.Controllers.Get(level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := modeParam(r, ctrl.Mode())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := level.Validate(mode); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	pointer := render.Pointer{
		PageX: floatParam(q.Get("page_x")),
		PageY: floatParam(q.Get("page_y")),
	}
	if level == domain.Level2 && !q.Has("x") {
		sharedobs.WriteJSON(w, http.StatusOK, render.HoverMonth(pointer, agg, mode))
		return
	}
	if level == domain.Level2 {
		pointer.OffsetX = floatParam(q.Get("x"))
		x, _ := data.Scales.Positional(s.deps.Layout.PlotWidth(), s.deps.Layout.PlotHeight(), s.deps.Layout.BandPadding)
		in, ok := render.HoverDay(pointer, agg, render.MiniWidth(x, s.deps.Layout))
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, in)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, render.HoverCell(pointer, agg, mode))
}

func (s *Server) controller(r *http.Request) (*view.Controller, error) {
	level, err := domain.ParseLevel(r.PathValue("level"))
	if err != nil {
		return nil, err
	}
	return s.deps.Controllers.Get(level)
}

func (s *Server) levelData(level domain.Level) (*pipeline.Snapshot, *pipeline.LevelData, error) {
	snap := s.deps.Snapshots.Current()
	if snap == nil {
		return nil, nil, domain.ErrNoSnapshot
	}
	data, err := snap.Level(level)
	if err != nil {
		return nil, nil, err
	}
	return snap, data, nil
}

func (s *Server) cell(r *http.Request, level domain.Level) (*pipeline.Snapshot, *pipeline.LevelData, domain.MonthAggregate, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return nil, nil, domain.MonthAggregate{}, fmt.Errorf("%w: year %q", domain.ErrCellNotFound, r.PathValue("year"))
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		return nil, nil, domain.MonthAggregate{}, fmt.Errorf("%w: month %q", domain.ErrCellNotFound, r.PathValue("month"))
	}
	snap, data, err := s.levelData(level)
	if err != nil {
		return nil, nil, domain.MonthAggregate{}, err
	}
	agg, err := data.Cell(year, time.Month(month))
	if err != nil {
		return nil, nil, domain.MonthAggregate{}, err
	}
	return snap, data, agg, nil
}

func modeParam(r *http.Request, fallback domain.DisplayMode) (domain.DisplayMode, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("mode"))
	if raw == "" {
		return fallback, nil
	}
	return domain.ParseDisplayMode(raw)
}

func floatParam(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func writeSVG(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", svgContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client went away
}
