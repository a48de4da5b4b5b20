package render_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
)

// January 2020 spans max 10..40 and min 0..20. January 2019 has no max values.
const sampleCSV = `date,max_temperature,min_temperature
2020-1-1,10,0
2020-1-2,40,20
2020-1-3,25,10
2020-2-1,15,2
2020-2-2,18,5
2019-1-1,,3
`

type stringSource string

func (s stringSource) Name() string { return "sample.csv" }

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildSnapshot(t *testing.T, csv string) *pipeline.Snapshot {
	t.Helper()
	b := pipeline.NewBuilder(stringSource(csv), 2008, discardLogger(), observability.NewMetricsForTesting())
	snap, err := b.Build(context.Background())
	require.NoError(t, err)
	return snap
}

func findCell(t *testing.T, rects []render.Rect, year, month string) render.Rect {
	t.Helper()
	for _, r := range rects {
		y, _ := render.AttrValue(r.Attrs, "data-year")
		m, _ := render.AttrValue(r.Attrs, "data-month")
		if y == year && m == month {
			return r
		}
	}
	t.Fatalf("no cell for %s-%s", year, month)
	return render.Rect{}
}
