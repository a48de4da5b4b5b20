// Command validate runs integrity checks over a daily temperature CSV and the
// snapshot built from it: parse quality, aggregate arithmetic, order
// independence, color scale coverage and level 2 day ordering.
//
// Usage:
//
//	go run ./cmd/validate -source data/temperature_daily.csv
//	go run ./cmd/validate -source https://example.com/temperature_daily.csv -strict
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap-service/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

const epsilon = 1e-9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	src := flag.String("source", "", "CSV file path or http(s) URL")
	minYear := flag.Int("min-year", 2008, "first year shown on level 2")
	strict := flag.Bool("strict", false, "fail on malformed temperature fields")
	flag.Parse()

	if *src == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *src, *minYear, *strict))
}

func run(out io.Writer, location string, minYear int, strict bool) int {
	// Fixed clock so snapshot timestamps are reproducible across runs.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Fprintln(out, "=== Temperature Data Integrity Validation ===")
	fmt.Fprintln(out)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src := source.New(location, 20*time.Second, logger)
	rc, err := src.Open(ctx)
	if err != nil {
		fmt.Fprintf(out, "FATAL: open source: %v\n", err)
		return 1
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		fmt.Fprintf(out, "FATAL: read source: %v\n", err)
		return 1
	}

	builder := pipeline.NewBuilder(src, minYear, logger, observability.NewUnregisteredMetrics())
	snap, err := builder.Assemble(data)
	if err != nil {
		fmt.Fprintf(out, "FATAL: build snapshot: %v\n", err)
		return 1
	}
	records, _, err := domain.DecodeCSV(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(out, "FATAL: decode records: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateParse(snap.Report, strict),
		validateAggregates(snap.Level1.Aggregates, records),
		validateOrderIndependence(records),
		validateScales(snap),
		validateDailySeries(snap.Level2.Aggregates, minYear),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d, records: %d, level 1 months: %d, level 2 months: %d\n",
		snap.Report.Rows, snap.Report.Records, len(snap.Level1.Aggregates), len(snap.Level2.Aggregates))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateParse(report domain.LoadReport, strict bool) *phase {
	p := &phase{name: "Parse: rows and fields"}
	for _, issue := range report.DroppedRows {
		p.errorf("line %d: row dropped (%s: %q)", issue.Line, issue.Reason, issue.Value)
	}
	if strict {
		for _, issue := range report.Malformed {
			p.errorf("line %d: %s %s (%q)", issue.Line, issue.Column, issue.Reason, issue.Value)
		}
	}
	return p
}

func validateAggregates(aggs []domain.MonthAggregate, records []domain.Record) *phase {
	p := &phase{name: "Aggregates: max, min, mean, count"}

	byKey := make(map[domain.MonthKey][]domain.Record)
	for _, r := range records {
		byKey[r.Key()] = append(byKey[r.Key()], r)
	}
	if len(byKey) != len(aggs) {
		p.errorf("%d distinct months in records, %d aggregates", len(byKey), len(aggs))
	}

	total := 0
	for _, a := range aggs {
		total += a.Count
		members := byKey[a.Key]
		if len(members) != a.Count {
			p.errorf("%s: count %d, want %d", a.Key, a.Count, len(members))
		}
		_, maxHi := domain.Extent(members, func(r domain.Record) float64 { return r.MaxTemperature })
		minLo, _ := domain.Extent(members, func(r domain.Record) float64 { return r.MinTemperature })
		if !sameValue(a.MaxTemperature, maxHi) {
			p.errorf("%s: max %v, want %v", a.Key, a.MaxTemperature, maxHi)
		}
		if !sameValue(a.MinTemperature, minLo) {
			p.errorf("%s: min %v, want %v", a.Key, a.MinTemperature, minLo)
		}
		if !sameValue(a.MeanMax, mean(members, func(r domain.Record) float64 { return r.MaxTemperature })) {
			p.errorf("%s: mean max %v is off", a.Key, a.MeanMax)
		}
		if !domain.IsMissing(a.MaxTemperature) && !domain.IsMissing(a.MinTemperature) && a.MinTemperature > a.MaxTemperature {
			p.errorf("%s: min %v above max %v", a.Key, a.MinTemperature, a.MaxTemperature)
		}
	}
	if total != len(records) {
		p.errorf("aggregate counts sum to %d, want %d records", total, len(records))
	}
	return p
}

func validateOrderIndependence(records []domain.Record) *phase {
	p := &phase{name: "Aggregates: input order independence"}
	want := domain.Aggregate(records)

	shuffled := append([]domain.Record(nil), records...)
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 3 {
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if diff := cmp.Diff(want, domain.Aggregate(shuffled), cmpopts.EquateNaNs()); diff != "" {
			p.errorf("shuffle %d changed the aggregates (-want +got):\n%s", round+1, diff)
		}
	}
	return p
}

func validateScales(snap *pipeline.Snapshot) *phase {
	p := &phase{name: "Scales: color domains cover every cell"}
	for _, data := range []*pipeline.LevelData{snap.Level1, snap.Level2} {
		for _, mode := range []domain.DisplayMode{domain.ModeMax, domain.ModeMin} {
			color := data.Scales.Color(mode)
			for _, a := range data.Aggregates {
				v := a.Value(mode)
				if domain.IsMissing(v) {
					continue
				}
				if t := color.T(v); t < -epsilon || t > 1+epsilon {
					p.errorf("level %d %s: %s value %v maps outside the ramp (t=%v)", int(data.Level), mode, a.Key, v, t)
				}
			}
		}
	}
	return p
}

func validateDailySeries(aggs []domain.MonthAggregate, minYear int) *phase {
	p := &phase{name: "Level 2: year cutoff and day ordering"}
	for _, a := range aggs {
		if a.Key.Year < minYear {
			p.errorf("%s is before the level 2 cutoff %d", a.Key, minYear)
		}
		if len(a.Days) != a.Count {
			p.errorf("%s: %d days kept, want %d", a.Key, len(a.Days), a.Count)
		}
		for i := 1; i < len(a.Days); i++ {
			if a.Days[i].Day() < a.Days[i-1].Day() {
				p.errorf("%s: day %d after day %d", a.Key, a.Days[i].Day(), a.Days[i-1].Day())
			}
		}
	}
	return p
}

func mean(records []domain.Record, value func(domain.Record) float64) float64 {
	sum, n := 0.0, 0
	for _, r := range records {
		if v := value(r); !domain.IsMissing(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return domain.Missing
	}
	return sum / float64(n)
}

func sameValue(a, b float64) bool {
	if domain.IsMissing(a) || domain.IsMissing(b) {
		return domain.IsMissing(a) && domain.IsMissing(b)
	}
	return math.Abs(a-b) <= 1e-6
}
