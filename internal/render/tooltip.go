package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

// Tooltip placement and fade timing relative to the pointer.
const (
	TooltipOffsetX = 12
	TooltipOffsetY = -20
	FadeInMillis   = 100
	FadeOutMillis  = 400

	// DaysPerCell is the number of day slots across a mini chart.
	DaysPerCell = 31
)

// Pointer is a pointer position. PageX and PageY are document coordinates;
// OffsetX is relative to the left edge of the hovered mini chart.
type Pointer struct {
	PageX   float64 `json:"page_x"`
	PageY   float64 `json:"page_y"`
	OffsetX float64 `json:"x"`
}

// Instruction tells a client how to update highlight and tooltip state in
// response to a pointer event.
type Instruction struct {
	Highlight      bool     `json:"highlight"`
	Stroke         string   `json:"stroke"`
	StrokeWidth    float64  `json:"stroke_width"`
	TooltipVisible bool     `json:"tooltip_visible"`
	Opacity        float64  `json:"opacity"`
	FadeMillis     int      `json:"fade_ms"`
	Left           float64  `json:"left"`
	Top            float64  `json:"top"`
	Lines          []string `json:"lines,omitempty"`
}

// HoverCell highlights a monthly cell and shows its aggregate.
func HoverCell(p Pointer, agg domain.MonthAggregate, mode domain.DisplayMode) Instruction {
	return Instruction{
		Highlight:      true,
		Stroke:         "#000",
		StrokeWidth:    2,
		TooltipVisible: true,
		Opacity:        1,
		FadeMillis:     FadeInMillis,
		Left:           p.PageX + TooltipOffsetX,
		Top:            p.PageY + TooltipOffsetY,
		Lines:          CellTooltip(agg, mode),
	}
}

// HoverMonth highlights a level 2 cell and shows the monthly mean its
// background is colored by.
func HoverMonth(p Pointer, agg domain.MonthAggregate, mode domain.DisplayMode) Instruction {
	in := HoverCell(p, agg, mode)
	in.Lines = MonthTooltip(agg, mode)
	return in
}

// HoverDay shows the record for the day under the pointer. The second
// result is false when that day has no record, in which case the tooltip
// should be left as it is.
func HoverDay(p Pointer, agg domain.MonthAggregate, miniWidth float64) (Instruction, bool) {
	day := DayAt(p.OffsetX, miniWidth)
	rec, ok := agg.DayRecord(day)
	if !ok {
		return Instruction{}, false
	}
	return Instruction{
		TooltipVisible: true,
		Opacity:        1,
		FadeMillis:     FadeInMillis,
		Left:           p.PageX + TooltipOffsetX,
		Top:            p.PageY + TooltipOffsetY,
		Lines:          DayTooltip(agg.Key, rec),
	}, true
}

// Leave clears the highlight and fades the tooltip out.
func Leave() Instruction {
	return Instruction{
		Stroke:      "#fff",
		StrokeWidth: 1,
		FadeMillis:  FadeOutMillis,
	}
}

// DayAt maps a horizontal offset within a mini chart to a day of the month,
// clamped to 1 through 31.
func DayAt(x, miniWidth float64) int {
	if miniWidth <= 0 || math.IsNaN(x) {
		return 1
	}
	idx := math.Floor(x / (miniWidth / DaysPerCell))
	return int(math.Min(math.Max(1, idx+1), DaysPerCell))
}

// CellTooltip is the text shown for a monthly cell.
func CellTooltip(agg domain.MonthAggregate, mode domain.DisplayMode) []string {
	label := "Max Temperature"
	if mode == domain.ModeMin {
		label = "Min Temperature"
	}
	return []string{
		"Date: " + agg.Key.Label(),
		label + ": " + FormatTemperature(agg.Value(mode)),
	}
}

// MonthTooltip is the text shown for a level 2 cell outside its day slots.
func MonthTooltip(agg domain.MonthAggregate, mode domain.DisplayMode) []string {
	label := "Mean Max Temperature"
	if mode == domain.ModeMin {
		label = "Mean Min Temperature"
	}
	return []string{
		"Date: " + agg.Key.Label(),
		label + ": " + FormatTemperature(agg.Background(mode)),
	}
}

// DayTooltip is the text shown for one day of a mini chart.
func DayTooltip(key domain.MonthKey, rec domain.Record) []string {
	return []string{
		fmt.Sprintf("Date: %s %d, %d", key.Month, rec.Day(), key.Year),
		"Max Temp: " + FormatTemperature(rec.MaxTemperature),
		"Min Temp: " + FormatTemperature(rec.MinTemperature),
	}
}

// FormatTemperature rounds to a whole degree, or returns "n/a" when missing.
func FormatTemperature(v float64) string {
	if domain.IsMissing(v) {
		return "n/a"
	}
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64) + "°C"
}
