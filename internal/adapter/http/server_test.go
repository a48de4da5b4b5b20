package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/temperature-heatmap-service/internal/adapter/http"
	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
	"github.com/couchcryptid/temperature-heatmap-service/internal/view"
)

const sampleCSV = `date,max_temperature,min_temperature
2020-1-1,10,0
2020-1-2,40,20
2020-1-3,25,10
2020-2-1,15,2
2020-2-2,18,5
2019-1-1,,3
`

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stringSource string

func (s stringSource) Name() string { return "sample.csv" }

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

type staticSnapshots struct {
	snap *pipeline.Snapshot
}

func (s staticSnapshots) Current() *pipeline.Snapshot { return s.snap }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, readyErr error, loaded bool) *httpadapter.Server {
	t.Helper()
	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()

	var snaps staticSnapshots
	if loaded {
		b := pipeline.NewBuilder(stringSource(sampleCSV), 2008, logger, metrics)
		snap, err := b.Build(context.Background())
		require.NoError(t, err)
		snaps.snap = snap
	}

	layout := config.DefaultLayout()
	renderer := render.NewCachedRenderer(render.NewSVGRenderer(layout, logger, metrics), 8, metrics)
	return httpadapter.NewServer(":0", httpadapter.Deps{
		Ready:       &mockReadiness{err: readyErr},
		Snapshots:   snaps,
		Controllers: view.NewControllers(renderer, snaps, logger, metrics),
		Renderer:    renderer,
		Layout:      layout,
	}, logger)
}

func serve(srv *httpadapter.Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(t, nil, true), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(t, nil, true), http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(t, fmt.Errorf("not ready yet"), false), http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(t, nil, true), http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIndexLinksLevels(t *testing.T) {
	rec := serve(newTestServer(t, nil, true), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/level/1"`)
	assert.Contains(t, rec.Body.String(), `href="/level/2"`)
	assert.Contains(t, rec.Body.String(), "sample.csv")
}

func TestLevelPage(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodGet, "/level/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="maxTempBtn" type="submit" class="active"`)
	assert.Contains(t, body, `id="minTempBtn"`)
	assert.NotContains(t, body, "showBothBtn")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, render.TitleMax)

	rec = serve(srv, http.MethodGet, "/level/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="showBothBtn" type="submit" class="active"`)
	assert.Contains(t, rec.Body.String(), render.TitleDaily)
}

func TestSelectMode(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodPost, "/level/1/mode/min", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/level/1", rec.Header().Get("Location"))

	rec = serve(srv, http.MethodGet, "/level/1", nil)
	assert.Contains(t, rec.Body.String(), render.TitleMin)
	assert.Contains(t, rec.Body.String(), `id="minTempBtn" type="submit" class="active"`)

	rec = serve(srv, http.MethodGet, "/level/1/heatmap.svg", nil)
	assert.Contains(t, rec.Body.String(), render.TitleMin, "stateless SVG defaults to the controller mode")
}

func TestSelectMode_Invalid(t *testing.T) {
	srv := newTestServer(t, nil, true)

	tests := []struct {
		target string
		status int
	}{
		{"/level/1/mode/both", http.StatusBadRequest},
		{"/level/2/mode/sideways", http.StatusBadRequest},
		{"/level/3/mode/max", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(srv, http.MethodPost, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestHeatmapSVG(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodGet, "/level/2/heatmap.svg?mode=min", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, etag, "-2-min")

	rec = serve(srv, http.MethodGet, "/level/2/heatmap.svg?mode=min", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(srv, http.MethodGet, "/level/1/heatmap.svg?mode=both", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCellChart(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodGet, "/level/2/cells/2020/1/chart.svg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = serve(srv, http.MethodGet, "/level/2/cells/2020/5/chart.svg", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(srv, http.MethodGet, "/level/2/cells/2020/13/chart.svg", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type aggregatesBody struct {
	Level      int    `json:"level"`
	SnapshotID string `json:"snapshot_id"`
	Aggregates []struct {
		Key            string   `json:"key"`
		MaxTemperature *float64 `json:"max_temperature"`
		MinTemperature *float64 `json:"min_temperature"`
		Count          int      `json:"count"`
		Days           []struct {
			Day int `json:"day"`
		} `json:"days"`
	} `json:"aggregates"`
}

func TestAggregatesAPI(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodGet, "/api/level/1/aggregates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[aggregatesBody](t, rec)

	assert.Equal(t, 1, body.Level)
	require.Len(t, body.Aggregates, 3)
	assert.Equal(t, "2019-01", body.Aggregates[0].Key)
	assert.Nil(t, body.Aggregates[0].MaxTemperature, "missing values serialize as null")
	require.NotNil(t, body.Aggregates[0].MinTemperature)
	assert.InDelta(t, 3, *body.Aggregates[0].MinTemperature, 0)

	jan := body.Aggregates[1]
	assert.Equal(t, "2020-01", jan.Key)
	assert.InDelta(t, 40, *jan.MaxTemperature, 0)
	assert.InDelta(t, 0, *jan.MinTemperature, 0)
	assert.Equal(t, 3, jan.Count)
	assert.Empty(t, jan.Days)

	rec = serve(srv, http.MethodGet, "/api/level/2/aggregates", nil)
	body = decode[aggregatesBody](t, rec)
	require.Len(t, body.Aggregates, 3)
	require.Len(t, body.Aggregates[1].Days, 3)
	assert.Equal(t, 1, body.Aggregates[1].Days[0].Day)
}

func TestTooltipAPI(t *testing.T) {
	srv := newTestServer(t, nil, true)

	rec := serve(srv, http.MethodGet, "/api/level/1/cells/2020/1/tooltip?page_x=100&page_y=200", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	in := decode[render.Instruction](t, rec)
	assert.Equal(t, []string{"Date: January 2020", "Max Temperature: 40°C"}, in.Lines)
	assert.InDelta(t, 112, in.Left, 0)
	assert.InDelta(t, 180, in.Top, 0)

	rec = serve(srv, http.MethodGet, "/api/level/1/cells/2019/1/tooltip", nil)
	in = decode[render.Instruction](t, rec)
	assert.Equal(t, "Max Temperature: n/a", in.Lines[1])

	rec = serve(srv, http.MethodGet, "/api/level/2/cells/2020/1/tooltip?x=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	in = decode[render.Instruction](t, rec)
	assert.Equal(t, []string{"Date: January 1, 2020", "Max Temp: 10°C", "Min Temp: 0°C"}, in.Lines)

	rec = serve(srv, http.MethodGet, "/api/level/2/cells/2020/1/tooltip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	in = decode[render.Instruction](t, rec)
	assert.Equal(t, []string{"Date: January 2020", "Mean Max Temperature: 25°C"}, in.Lines)

	rec = serve(srv, http.MethodGet, "/api/level/2/cells/2020/1/tooltip?mode=min", nil)
	in = decode[render.Instruction](t, rec)
	assert.Equal(t, "Mean Min Temperature: 10°C", in.Lines[1])

	rec = serve(srv, http.MethodGet, "/api/level/2/cells/2020/1/tooltip?x=100000", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(srv, http.MethodGet, "/api/level/1/cells/1999/1/tooltip", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshotAPI(t *testing.T) {
	rec := serve(newTestServer(t, nil, true), http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "sample.csv", body["source"])
	assert.InDelta(t, 6, body["records"], 0)
	assert.InDelta(t, 3, body["level1_months"], 0)
	assert.NotEmpty(t, body["id"])
}

func TestNoSnapshotReturns503(t *testing.T) {
	srv := newTestServer(t, nil, false)

	for _, target := range []string{"/api/snapshot", "/level/1", "/level/1/heatmap.svg", "/api/level/2/aggregates"} {
		rec := serve(srv, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}

	rec := serve(srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data loaded yet.")
}
