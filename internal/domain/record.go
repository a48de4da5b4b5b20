package domain

import (
	"fmt"
	"math"
	"time"
)

// Missing marks a temperature that was absent or unparsable in the source.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Nullable returns nil for Missing and a pointer to v otherwise, so encoders
// write null instead of NaN.
func Nullable(v float64) *float64 {
	if IsMissing(v) {
		return nil
	}
	return &v
}

// Record is one parsed CSV row.
type Record struct {
	Date           time.Time
	MaxTemperature float64 // Missing when absent
	MinTemperature float64 // Missing when absent
}

// Year returns the calendar year of the record.
func (r Record) Year() int { return r.Date.Year() }

// Month returns the calendar month of the record.
func (r Record) Month() time.Month { return r.Date.Month() }

// Day returns the day of the month, 1 through 31.
func (r Record) Day() int { return r.Date.Day() }

// Key returns the (year, month) partition the record belongs to.
func (r Record) Key() MonthKey {
	return MonthKey{Year: r.Year(), Month: r.Month()}
}

// MonthKey identifies a single heatmap cell.
type MonthKey struct {
	Year  int
	Month time.Month
}

// Index returns the zero-based month index used on the vertical axis.
func (k MonthKey) Index() int { return int(k.Month) - 1 }

// String formats the key as "2020-01".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label formats the key as "January 2020".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month, k.Year)
}

// MonthAggregate summarizes every record of one (year, month).
type MonthAggregate struct {
	Key            MonthKey
	MaxTemperature float64 // largest daily max; Missing if none present
	MinTemperature float64 // smallest daily min; Missing if none present
	MeanMax        float64
	MeanMin        float64
	Count          int
	MissingMax     int
	MissingMin     int

	// Days holds the month's records sorted by day. Only populated for the
	// daily-detail level.
	Days []Record
}

// Value returns the aggregate a single-kind display mode colors by.
func (a MonthAggregate) Value(mode DisplayMode) float64 {
	if mode == ModeMin {
		return a.MinTemperature
	}
	return a.MaxTemperature
}

// Background returns the mean a daily-detail cell is shaded by.
func (a MonthAggregate) Background(mode DisplayMode) float64 {
	if mode == ModeMin {
		return a.MeanMin
	}
	return a.MeanMax
}

// DayRecord returns the first record for the given day of the month.
func (a MonthAggregate) DayRecord(day int) (Record, bool) {
	for _, r := range a.Days {
		if r.Day() == day {
			return r, true
		}
	}
	return Record{}, false
}

// FieldIssue describes one malformed or dropped CSV value.
type FieldIssue struct {
	Line   int    `json:"line" yaml:"line"`
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

// LoadReport summarizes what the loader accepted and rejected.
type LoadReport struct {
	Rows        int          `json:"rows" yaml:"rows"`
	Records     int          `json:"records" yaml:"records"`
	DroppedRows []FieldIssue `json:"dropped_rows,omitempty" yaml:"dropped_rows,omitempty"`
	Malformed   []FieldIssue `json:"malformed_fields,omitempty" yaml:"malformed_fields,omitempty"`
}

// Clean reports whether every row parsed without issues.
func (r LoadReport) Clean() bool {
	return len(r.DroppedRows) == 0 && len(r.Malformed) == 0
}
