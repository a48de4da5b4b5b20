package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/scale"
)

// Chart titles.
const (
	TitleMax   = "Maximum Temperature by Month and Year"
	TitleMin   = "Minimum Temperature by Month and Year"
	TitleDaily = "Daily Temperature Variations by Month and Year"
)

// BuildScene lays out one level's heatmap in the given mode. It has no side
// effects: identical inputs produce identical scenes.
func BuildScene(data *pipeline.LevelData, mode domain.DisplayMode, layout config.Layout) (Scene, error) {
	if data == nil {
		return Scene{}, domain.ErrNoSnapshot
	}
	if err := data.Level.Validate(mode); err != nil {
		return Scene{}, err
	}

	w, h := layout.PlotWidth(), layout.PlotHeight()
	x, y := data.Scales.Positional(w, h, layout.BandPadding)

	var title string
	var cells Group
	var legendTop float64
	switch data.Level {
	case domain.Level2:
		title = TitleDaily
		cells = dailyCells(data, mode, layout, x, y)
		legendTop = 20
	default:
		title = TitleMax
		if mode == domain.ModeMin {
			title = TitleMin
		}
		cells = monthlyCells(data, mode, layout, x, y)
	}

	plot := Group{
		Class:     "plot",
		Transform: translate(layout.Margin.Left, layout.Margin.Top),
	}
	plot.Children = append(plot.Children, yearAxis(x, h, w), monthAxis(y, h))
	plot.Children = append(plot.Children, axisLabels(title, w, h)...)
	plot.Children = append(plot.Children, cells, colorLegend(data.Scales, mode, layout, w, legendTop))
	if data.Level == domain.Level2 && mode == domain.ModeBoth {
		plot.Children = append(plot.Children, lineLegend(layout, w))
	}

	return Scene{
		Width:    layout.Width,
		Height:   layout.Height,
		Label:    title,
		Style:    stylesheet(layout),
		Children: []Node{plot},
	}, nil
}

func monthlyCells(data *pipeline.LevelData, mode domain.DisplayMode, layout config.Layout, x, y scale.Band) Group {
	color := data.Scales.Color(mode)
	g := Group{Class: "cells"}
	for _, agg := range data.Aggregates {
		px, _ := x.Position(agg.Key.Year)
		py, _ := y.Position(agg.Key.Index())
		v := agg.Value(mode)
		g.Children = append(g.Children, Rect{
			Class:       "cell",
			X:           px,
			Y:           py,
			Width:       x.Bandwidth(),
			Height:      y.Bandwidth(),
			Fill:        color.Fill(v, layout.NoDataColor),
			Stroke:      "#fff",
			StrokeWidth: 1,
			Attrs:       cellAttrs(agg.Key, v),
			Title:       strings.Join(CellTooltip(agg, mode), "\n"),
		})
	}
	return g
}

func dailyCells(data *pipeline.LevelData, mode domain.DisplayMode, layout config.Layout, x, y scale.Band) Group {
	color := data.Scales.Color(mode)
	pad := layout.CellPadding
	miniW := MiniWidth(x, layout)
	miniH := y.Bandwidth() - 2*pad

	g := Group{Class: "cells"}
	for _, agg := range data.Aggregates {
		px, _ := x.Position(agg.Key.Year)
		py, _ := y.Position(agg.Key.Index())
		bg := agg.Background(mode)
		g.Children = append(g.Children, Group{
			Class:     "month-cell",
			Transform: translate(px, py),
			Attrs:     cellAttrs(agg.Key, bg),
			Children: []Node{
				Rect{
					Class:  "cell-bg",
					Width:  x.Bandwidth(),
					Height: y.Bandwidth(),
					Fill:   color.Fill(bg, layout.NoDataColor),
				},
				miniChart(agg, mode, miniW, miniH, pad),
			},
		})
	}
	return g
}

// MiniWidth is the drawable width of a mini chart inside a cell of the x band.
func MiniWidth(x scale.Band, layout config.Layout) float64 {
	return x.Bandwidth() - 2*layout.CellPadding
}

// miniChart draws one month's daily series on a local [1, 31] x domain and a
// y domain spanning both series, plus one hover slot per recorded day.
func miniChart(agg domain.MonthAggregate, mode domain.DisplayMode, miniW, miniH, pad float64) Group {
	g := Group{Class: "mini-chart", Transform: translate(pad, pad)}

	lo, hi := domain.Extent(agg.Days, func(r domain.Record) float64 { return r.MaxTemperature })
	lo2, hi2 := domain.Extent(agg.Days, func(r domain.Record) float64 { return r.MinTemperature })
	lo, hi = mergeExtent(lo, hi, lo2, hi2)

	if !domain.IsMissing(lo) {
		mx := scale.NewLinear(1, DaysPerCell, 0, miniW)
		my := scale.NewLinear(lo, hi, miniH, 0)
		if mode.ShowsMax() {
			if d := linePath(agg.Days, mx, my, func(r domain.Record) float64 { return r.MaxTemperature }); d != "" {
				g.Children = append(g.Children, Path{Class: "max-temp-line", D: d})
			}
		}
		if mode.ShowsMin() {
			if d := linePath(agg.Days, mx, my, func(r domain.Record) float64 { return r.MinTemperature }); d != "" {
				g.Children = append(g.Children, Path{Class: "min-temp-line", D: d})
			}
		}
	}

	slot := miniW / DaysPerCell
	for day := 1; day <= DaysPerCell; day++ {
		rec, ok := agg.DayRecord(day)
		if !ok {
			continue
		}
		g.Children = append(g.Children, Rect{
			Class:  "day-hover",
			X:      float64(day-1) * slot,
			Width:  slot,
			Height: miniH,
			Fill:   "transparent",
			Attrs:  []Attr{{Name: "data-day", Value: strconv.Itoa(day)}},
			Title:  strings.Join(DayTooltip(agg.Key, rec), "\n"),
		})
	}
	return g
}

// linePath connects consecutive present values. A missing value breaks the
// line into separate segments.
func linePath(days []domain.Record, mx, my scale.Linear, value func(domain.Record) float64) string {
	var b strings.Builder
	pen := false
	for _, r := range days {
		v := value(r)
		if domain.IsMissing(v) {
			pen = false
			continue
		}
		if pen {
			b.WriteByte('L')
		} else {
			b.WriteByte('M')
			pen = true
		}
		b.WriteString(num(mx.Map(float64(r.Day()))))
		b.WriteByte(',')
		b.WriteString(num(my.Map(v)))
	}
	return b.String()
}

func mergeExtent(lo1, hi1, lo2, hi2 float64) (float64, float64) {
	switch {
	case domain.IsMissing(lo1):
		return lo2, hi2
	case domain.IsMissing(lo2):
		return lo1, hi1
	}
	return min(lo1, lo2), max(hi1, hi2)
}

func cellAttrs(key domain.MonthKey, v float64) []Attr {
	value := "n/a"
	if !domain.IsMissing(v) {
		value = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []Attr{
		{Name: "data-year", Value: strconv.Itoa(key.Year)},
		{Name: "data-month", Value: strconv.Itoa(int(key.Month))},
		{Name: "data-value", Value: value},
	}
}

func stylesheet(layout config.Layout) string {
	return fmt.Sprintf("text{font-family:%s;font-size:12px}"+
		".chart-title{font-size:18px;font-weight:bold}"+
		".x-axis text,.y-axis text,.legend-axis text{font-size:10px}"+
		".cell:hover{stroke:#000;stroke-width:2px}"+
		".max-temp-line{fill:none;stroke:%s;stroke-width:1.5px}"+
		".min-temp-line{fill:none;stroke:%s;stroke-width:1.5px}"+
		".day-hover:hover{fill:rgba(0,0,0,0.12)}",
		layout.FontFamily, layout.MaxLineColor, layout.MinLineColor)
}
