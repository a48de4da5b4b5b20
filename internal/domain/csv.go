package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names the loader requires in the header row.
const (
	ColumnDate = "date"
	ColumnMax  = "max_temperature"
	ColumnMin  = "min_temperature"
)

// DecodeCSV parses daily observations from r.
//
// Malformed temperatures become Missing and are listed in the report.
// Rows with an unparsable date are dropped and listed. A missing required
// column yields ErrMissingColumn, and a file with no usable rows yields
// ErrEmptyDataset alongside the report.
func DecodeCSV(r io.Reader) ([]Record, LoadReport, error) {
	var report LoadReport

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, fmt.Errorf("read header: %w", ErrEmptyDataset)
	}
	if err != nil {
		return nil, report, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, report, err
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.Rows++
			report.DroppedRows = append(report.DroppedRows, FieldIssue{
				Line: parseErr.StartLine, Reason: parseErr.Err.Error(),
			})
			continue
		}
		if err != nil {
			return nil, report, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRow(row) {
			continue
		}
		report.Rows++

		rawDate := field(row, cols[ColumnDate])
		date, err := ParseDate(rawDate)
		if err != nil {
			report.DroppedRows = append(report.DroppedRows, FieldIssue{
				Line: line, Column: ColumnDate, Value: rawDate, Reason: err.Error(),
			})
			continue
		}

		rec := Record{Date: date}
		rec.MaxTemperature = parseTemperature(&report, line, ColumnMax, field(row, cols[ColumnMax]))
		rec.MinTemperature = parseTemperature(&report, line, ColumnMin, field(row, cols[ColumnMin]))
		records = append(records, rec)
	}

	report.Records = len(records)
	if len(records) == 0 {
		return nil, report, ErrEmptyDataset
	}
	return records, report, nil
}

// ParseDate parses "YYYY-M-D" into a UTC midnight time. Dates that do not
// exist on the calendar, such as 2021-2-30, are rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-M-D", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", s, err)
		}
		n[i] = v
	}
	year, month, day := n[0], n[1], n[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q: out of range", s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("date %q: not a calendar day", s)
	}
	return t, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, want := range []string{ColumnDate, ColumnMax, ColumnMin} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
	}
	return cols, nil
}

func parseTemperature(report *LoadReport, line int, column, raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		report.Malformed = append(report.Malformed, FieldIssue{
			Line: line, Column: column, Value: raw, Reason: "empty",
		})
		return Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || IsMissing(v) || math.IsInf(v, 0) {
		report.Malformed = append(report.Malformed, FieldIssue{
			Line: line, Column: column, Value: raw, Reason: "not a number",
		})
		return Missing
	}
	return v
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
