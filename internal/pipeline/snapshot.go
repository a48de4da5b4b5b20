package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/scale"
)

// Snapshot is an immutable, fully built dataset: the parsed source plus the
// aggregates and scales of both levels. It is replaced, never mutated.
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Source   string
	Digest   string // sha256 of the raw source bytes
	Report   domain.LoadReport

	Level1 *LevelData
	Level2 *LevelData
}

// Level returns the data for one visualization level.
func (s *Snapshot) Level(l domain.Level) (*LevelData, error) {
	switch l {
	case domain.Level1:
		return s.Level1, nil
	case domain.Level2:
		return s.Level2, nil
	default:
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, l)
	}
}

// LevelData holds one level's aggregates and the scales derived from them.
type LevelData struct {
	Level      domain.Level
	Aggregates []domain.MonthAggregate
	Scales     Scales

	index map[domain.MonthKey]int
}

// NewLevelData indexes aggregates for cell lookup.
func NewLevelData(l domain.Level, aggs []domain.MonthAggregate, scales Scales) *LevelData {
	idx := make(map[domain.MonthKey]int, len(aggs))
	for i, a := range aggs {
		idx[a.Key] = i
	}
	return &LevelData{Level: l, Aggregates: aggs, Scales: scales, index: idx}
}

// Cell returns the aggregate for (year, month) or ErrCellNotFound.
func (d *LevelData) Cell(year int, month time.Month) (domain.MonthAggregate, error) {
	key := domain.MonthKey{Year: year, Month: month}
	i, ok := d.index[key]
	if !ok {
		return domain.MonthAggregate{}, fmt.Errorf("%w: %s at level %d", domain.ErrCellNotFound, key, d.Level)
	}
	return d.Aggregates[i], nil
}

// Scales are the color and band domains for one level.
type Scales struct {
	Max    scale.Sequential
	Min    scale.Sequential
	Years  []int
	Months []int // zero-based month indexes, always 0 through 11
}

// Color returns the color scale the mode shades cells with. Mode both uses
// the max scale.
func (s Scales) Color(mode domain.DisplayMode) scale.Sequential {
	if mode == domain.ModeMin {
		return s.Min
	}
	return s.Max
}

// Positional returns the year (x) and month (y) band scales for a plot area.
func (s Scales) Positional(width, height, padding float64) (x, y scale.Band) {
	return scale.NewBand(s.Years, 0, width, padding), scale.NewBand(s.Months, 0, height, padding)
}

// Legend maps the mode's color domain onto a vertical strip, high values on top.
func (s Scales) Legend(mode domain.DisplayMode, height float64) scale.Linear {
	d0, d1 := s.Color(mode).Domain()
	return scale.NewLinear(d0, d1, height, 0)
}

// BuildScales derives the scales for one level. Level 1 colors by the extent
// of the monthly aggregates; level 2 colors by the extent of the daily records
// it keeps.
func BuildScales(l domain.Level, aggs []domain.MonthAggregate, records []domain.Record) Scales {
	var maxLo, maxHi, minLo, minHi float64
	if l == domain.Level2 {
		maxLo, maxHi = domain.Extent(records, func(r domain.Record) float64 { return r.MaxTemperature })
		minLo, minHi = domain.Extent(records, func(r domain.Record) float64 { return r.MinTemperature })
	} else {
		maxLo, maxHi = domain.Extent(aggs, func(a domain.MonthAggregate) float64 { return a.MaxTemperature })
		minLo, minHi = domain.Extent(aggs, func(a domain.MonthAggregate) float64 { return a.MinTemperature })
	}

	months := make([]int, 12)
	for i := range months {
		months[i] = i
	}
	return Scales{
		Max:    scale.NewSequential(maxLo, maxHi, scale.Reds),
		Min:    scale.NewSequential(minLo, minHi, scale.Blues),
		Years:  domain.Years(aggs),
		Months: months,
	}
}
