package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

var detailTicks = []float64{1, 5, 10, 15, 20, 25, 31}

// RenderDetail writes an SVG line chart of one month's daily temperatures,
// a larger view of a single mini chart. The mode picks which series to draw.
func RenderDetail(w io.Writer, agg domain.MonthAggregate, mode domain.DisplayMode, layout config.Layout) error {
	var series []chart.Series
	if mode.ShowsMax() {
		if s, ok := dailySeries("Max", agg.Days, layout.MaxLineColor, func(r domain.Record) float64 { return r.MaxTemperature }); ok {
			series = append(series, s)
		}
	}
	if mode.ShowsMin() {
		if s, ok := dailySeries("Min", agg.Days, layout.MinLineColor, func(r domain.Record) float64 { return r.MinTemperature }); ok {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("%w: no temperatures recorded for %s", domain.ErrCellNotFound, agg.Key)
	}

	lo, hi := domain.Extent(agg.Days, func(r domain.Record) float64 { return r.MaxTemperature })
	lo2, hi2 := domain.Extent(agg.Days, func(r domain.Record) float64 { return r.MinTemperature })
	lo, hi = mergeExtent(lo, hi, lo2, hi2)
	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}

	ticks := make([]chart.Tick, len(detailTicks))
	for i, d := range detailTicks {
		ticks[i] = chart.Tick{Value: d, Label: strconv.Itoa(int(d))}
	}

	graph := chart.Chart{
		Title:  agg.Key.Label(),
		Width:  layout.DetailWidth,
		Height: layout.DetailHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Day",
			Range: &chart.ContinuousRange{Min: 1, Max: DaysPerCell},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Temperature (°C)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return roundLabel(f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render detail chart %s: %w", agg.Key, err)
	}
	return nil
}

func dailySeries(name string, days []domain.Record, hex string, value func(domain.Record) float64) (chart.ContinuousSeries, bool) {
	var xs, ys []float64
	for _, r := range days {
		v := value(r)
		if domain.IsMissing(v) {
			continue
		}
		xs = append(xs, float64(r.Day()))
		ys = append(ys, v)
	}
	if len(xs) == 0 {
		return chart.ContinuousSeries{}, false
	}
	color := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return chart.ContinuousSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    2,
		},
		XValues: xs,
		YValues: ys,
	}, true
}
