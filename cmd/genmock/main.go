// Command genmock generates a synthetic daily temperature CSV for local
// development and demos. Temperatures follow a seasonal curve with random
// noise and a slow warming trend; a small share of fields can be corrupted
// to exercise the loader's malformed-value handling. The output is decoded
// and aggregated with the real domain package before the stats are printed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/temperature_daily.csv -from 2005 -to 2017
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

type genOptions struct {
	from, to      int
	seed          uint64
	mean, swing   float64
	malformedRate float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	from := flag.Int("from", 2005, "first year to generate")
	to := flag.Int("to", 2017, "last year to generate")
	seed := flag.Uint64("seed", 42, "random seed for reproducible output")
	mean := flag.Float64("mean", 18, "annual mean of the daily maximum in °C")
	swing := flag.Float64("swing", 9, "seasonal amplitude in °C")
	malformed := flag.Float64("malformed", 0, "share of temperature fields to corrupt (0-1)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *to < *from {
		return fmt.Errorf("-to %d is before -from %d", *to, *from)
	}

	opts := genOptions{from: *from, to: *to, seed: *seed, mean: *mean, swing: *swing, malformedRate: *malformed}
	var buf bytes.Buffer
	rows, err := generate(&buf, opts)
	if err != nil {
		return err
	}
	if err := writeFile(*out, buf.Bytes()); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	log.Printf("wrote %d rows to %s", rows, *out)

	records, report, err := domain.DecodeCSV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("decoding generated CSV: %w", err)
	}
	printStats(domain.Aggregate(records), report)
	return nil
}

// generate writes one row per calendar day from Jan 1 of opts.from through
// Dec 31 of opts.to and returns the number of rows written.
func generate(w *bytes.Buffer, opts genOptions) (int, error) {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{domain.ColumnDate, domain.ColumnMax, domain.ColumnMin}); err != nil {
		return 0, err
	}

	rows := 0
	start := time.Date(opts.from, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(opts.to+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		// Coldest around mid January, warmest around mid July.
		season := -math.Cos(2 * math.Pi * (float64(d.YearDay()) - 15) / 365.25)
		trend := 0.03 * float64(d.Year()-opts.from)
		maxT := opts.mean + opts.swing*season + trend + rng.NormFloat64()*2.5
		minT := maxT - 7 - rng.Float64()*5

		row := []string{
			fmt.Sprintf("%d-%d-%d", d.Year(), d.Month(), d.Day()),
			formatTemp(maxT),
			formatTemp(minT),
		}
		for i := 1; i < len(row); i++ {
			if opts.malformedRate > 0 && rng.Float64() < opts.malformedRate {
				row[i] = corrupt(rng)
			}
		}
		if err := cw.Write(row); err != nil {
			return rows, err
		}
		rows++
	}
	cw.Flush()
	return rows, cw.Error()
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func corrupt(rng *rand.Rand) string {
	bad := []string{"", "NaN", "n/a", "--", "12,5"}
	return bad[rng.IntN(len(bad))]
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(aggs []domain.MonthAggregate, report domain.LoadReport) {
	fmt.Printf("Records: %d\n", report.Records)
	fmt.Printf("Months: %d\n", len(aggs))
	fmt.Printf("Malformed fields: %d\n", len(report.Malformed))
	fmt.Printf("Dropped rows: %d\n", len(report.DroppedRows))
	if len(aggs) == 0 {
		return
	}

	hottest, coldest := aggs[0], aggs[0]
	for _, a := range aggs[1:] {
		if !domain.IsMissing(a.MaxTemperature) && (domain.IsMissing(hottest.MaxTemperature) || a.MaxTemperature > hottest.MaxTemperature) {
			hottest = a
		}
		if !domain.IsMissing(a.MinTemperature) && (domain.IsMissing(coldest.MinTemperature) || a.MinTemperature < coldest.MinTemperature) {
			coldest = a
		}
	}
	fmt.Printf("Hottest month: %s (%.1f°C)\n", hottest.Key.Label(), hottest.MaxTemperature)
	fmt.Printf("Coldest month: %s (%.1f°C)\n", coldest.Key.Label(), coldest.MinTemperature)
}
