package render_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
	"github.com/couchcryptid/temperature-heatmap-service/internal/scale"
)

func TestBuildScene_Level1_OneCellPerMonth(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)

	scene, err := render.BuildScene(snap.Level1, domain.ModeMax, config.DefaultLayout())
	require.NoError(t, err)

	cells := scene.Rects("cell")
	assert.Len(t, cells, 3)
	assert.Equal(t, 1100.0, scene.Width)
	assert.Equal(t, 600.0, scene.Height)
	assert.Equal(t, []string{render.TitleMax}, scene.Texts("chart-title"))
	assert.Equal(t, []string{"Year"}, scene.Texts("x-label"))
	assert.Equal(t, []string{"Month"}, scene.Texts("y-label"))
}

func TestBuildScene_Level1_January2020(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)
	layout := config.DefaultLayout()

	maxScene, err := render.BuildScene(snap.Level1, domain.ModeMax, layout)
	require.NoError(t, err)
	jan := findCell(t, maxScene.Rects("cell"), "2020", "1")
	assert.Equal(t, "Date: January 2020\nMax Temperature: 40°C", jan.Title)
	assert.Equal(t, scale.CSS(scale.Reds.At(1)), jan.Fill, "hottest month gets the dark end of the ramp")

	feb := findCell(t, maxScene.Rects("cell"), "2020", "2")
	assert.Equal(t, scale.CSS(scale.Reds.At(0)), feb.Fill)

	minScene, err := render.BuildScene(snap.Level1, domain.ModeMin, layout)
	require.NoError(t, err)
	jan = findCell(t, minScene.Rects("cell"), "2020", "1")
	assert.Equal(t, "Date: January 2020\nMin Temperature: 0°C", jan.Title)
	assert.Equal(t, scale.CSS(scale.Blues.At(0)), jan.Fill)
	assert.Equal(t, []string{render.TitleMin}, minScene.Texts("chart-title"))
}

func TestBuildScene_Level1_CellGeometry(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)
	layout := config.DefaultLayout()

	scene, err := render.BuildScene(snap.Level1, domain.ModeMax, layout)
	require.NoError(t, err)

	x, y := snap.Level1.Scales.Positional(layout.PlotWidth(), layout.PlotHeight(), layout.BandPadding)
	jan := findCell(t, scene.Rects("cell"), "2020", "1")
	wantX, _ := x.Position(2020)
	wantY, _ := y.Position(0)
	assert.Equal(t, wantX, jan.X)
	assert.Equal(t, wantY, jan.Y)
	assert.Equal(t, x.Bandwidth(), jan.Width)
	assert.Equal(t, y.Bandwidth(), jan.Height)
}

func TestBuildScene_Level1_MissingValue(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)
	layout := config.DefaultLayout()

	scene, err := render.BuildScene(snap.Level1, domain.ModeMax, layout)
	require.NoError(t, err)

	cell := findCell(t, scene.Rects("cell"), "2019", "1")
	assert.Equal(t, layout.NoDataColor, cell.Fill)
	assert.Equal(t, "Date: January 2019\nMax Temperature: n/a", cell.Title)
	v, _ := render.AttrValue(cell.Attrs, "data-value")
	assert.Equal(t, "n/a", v)
}

func TestBuildScene_Level1_RejectsBoth(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)

	_, err := render.BuildScene(snap.Level1, domain.ModeBoth, config.DefaultLayout())
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestBuildScene_Level2_Modes(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)
	layout := config.DefaultLayout()

	tests := []struct {
		mode       domain.DisplayMode
		maxLines   int
		minLines   int
		lineLegend int
	}{
		{domain.ModeBoth, 2, 3, 1},
		{domain.ModeMax, 2, 0, 0},
		{domain.ModeMin, 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			scene, err := render.BuildScene(snap.Level2, tt.mode, layout)
			require.NoError(t, err)

			assert.Len(t, scene.Groups("month-cell"), 3)
			assert.Len(t, scene.Paths("max-temp-line"), tt.maxLines, "january 2019 has no max values")
			assert.Len(t, scene.Paths("min-temp-line"), tt.minLines)
			assert.Len(t, scene.Groups("line-legend"), tt.lineLegend)
			assert.Equal(t, []string{render.TitleDaily}, scene.Texts("chart-title"))
		})
	}
}

func TestBuildScene_Level2_Background(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)

	scene, err := render.BuildScene(snap.Level2, domain.ModeBoth, config.DefaultLayout())
	require.NoError(t, err)

	var janBg render.Rect
	for _, g := range scene.Groups("month-cell") {
		y, _ := render.AttrValue(g.Attrs, "data-year")
		m, _ := render.AttrValue(g.Attrs, "data-month")
		if y == "2020" && m == "1" {
			janBg = g.Children[0].(render.Rect)
		}
	}
	// Mean max of 25 sits in the middle of the daily max extent [10, 40].
	assert.Equal(t, "cell-bg", janBg.Class)
	assert.Equal(t, "rgb(249, 105, 76)", janBg.Fill)
}

func TestBuildScene_Level2_DayHover(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)

	scene, err := render.BuildScene(snap.Level2, domain.ModeBoth, config.DefaultLayout())
	require.NoError(t, err)

	slots := scene.Rects("day-hover")
	assert.Len(t, slots, 6, "one slot per recorded day")
	var found bool
	for _, s := range slots {
		if strings.HasPrefix(s.Title, "Date: January 2, 2020") {
			found = true
			assert.Equal(t, "Date: January 2, 2020\nMax Temp: 40°C\nMin Temp: 20°C", s.Title)
		}
	}
	assert.True(t, found)
}

// January 2021 spans days 1..31 with the highest max on day 1 and the lowest
// min on day 3. Day 2 has no max.
const miniChartCSV = `date,max_temperature,min_temperature
2021-1-1,30,10
2021-1-2,,12
2021-1-3,25,5
2021-1-31,28,8
`

func TestBuildScene_Level2_MiniChartGeometry(t *testing.T) {
	snap := buildSnapshot(t, miniChartCSV)
	layout := config.DefaultLayout()

	scene, err := render.BuildScene(snap.Level2, domain.ModeBoth, layout)
	require.NoError(t, err)

	bg := scene.Rects("cell-bg")
	require.Len(t, bg, 1)
	miniW := bg[0].Width - 2*layout.CellPadding
	miniH := bg[0].Height - 2*layout.CellPadding
	x, _ := snap.Level2.Scales.Positional(layout.PlotWidth(), layout.PlotHeight(), layout.BandPadding)
	assert.InDelta(t, render.MiniWidth(x, layout), miniW, 1e-9)

	maxLines := scene.Paths("max-temp-line")
	minLines := scene.Paths("min-temp-line")
	require.Len(t, maxLines, 1)
	require.Len(t, minLines, 1)

	maxSegs := pathSegments(t, maxLines[0].D)
	require.Len(t, maxSegs, 2, "missing day 2 splits the max line")
	assert.Len(t, maxSegs[0], 1)
	assert.Len(t, maxSegs[1], 2)

	// Day 1 sits on the left edge and carries the overall high.
	assert.InDelta(t, 0, maxSegs[0][0][0], 1e-3)
	assert.InDelta(t, 0, maxSegs[0][0][1], 1e-3)
	// Day 31 sits on the right edge.
	assert.InDelta(t, miniW, maxSegs[1][1][0], 1e-3)

	minSegs := pathSegments(t, minLines[0].D)
	require.Len(t, minSegs, 1)
	require.Len(t, minSegs[0], 4)
	// Day 3 carries the overall low at the bottom of the chart.
	assert.InDelta(t, miniW*2/30, minSegs[0][2][0], 1e-3)
	assert.InDelta(t, miniH, minSegs[0][2][1], 1e-3)
	assert.InDelta(t, miniW, minSegs[0][3][0], 1e-3)
}

// pathSegments splits an "M x,y L x,y" path into its subpaths of points.
func pathSegments(t *testing.T, d string) [][][2]float64 {
	t.Helper()
	var segs [][][2]float64
	for _, sub := range strings.Split(d, "M")[1:] {
		var pts [][2]float64
		for _, pt := range strings.Split(sub, "L") {
			xy := strings.Split(strings.TrimSpace(pt), ",")
			require.Len(t, xy, 2, "point %q", pt)
			px, err := strconv.ParseFloat(xy[0], 64)
			require.NoError(t, err)
			py, err := strconv.ParseFloat(xy[1], 64)
			require.NoError(t, err)
			pts = append(pts, [2]float64{px, py})
		}
		segs = append(segs, pts)
	}
	return segs
}

func TestBuildScene_Legend(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)

	scene, err := render.BuildScene(snap.Level1, domain.ModeMax, config.DefaultLayout())
	require.NoError(t, err)

	rects := scene.Rects("legend-rect")
	require.Len(t, rects, 50)
	assert.Equal(t, 6.0, rects[0].Height)
	assert.Equal(t, 20.0, rects[0].Width)
	assert.Equal(t, scale.CSS(scale.Reds.At(1)), rects[0].Fill, "top of the strip is the hottest value")
	assert.Equal(t, []string{"Temperature"}, scene.Texts("legend-title"))
}

func TestEncode_Deterministic(t *testing.T) {
	snap := buildSnapshot(t, sampleCSV)
	layout := config.DefaultLayout()

	first, err := render.BuildScene(snap.Level2, domain.ModeBoth, layout)
	require.NoError(t, err)
	second, err := render.BuildScene(snap.Level2, domain.ModeBoth, layout)
	require.NoError(t, err)

	a, b := render.Encode(first), render.Encode(second)
	assert.Equal(t, a, b)

	out := string(render.Encode(first))
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="1100" height="600"`))
	assert.Contains(t, out, "<style>")
	assert.Contains(t, out, `class="month-cell"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestEncode_EscapesText(t *testing.T) {
	scene := render.Scene{
		Width:  10,
		Height: 10,
		Children: []render.Node{
			render.Rect{Class: "cell", Width: 1, Height: 1, Title: "a < b & \"c\"\nnext"},
			render.Text{Content: "<script>"},
		},
	}

	out := string(render.Encode(scene))
	assert.Contains(t, out, "<title>a &lt; b &amp; &#34;c&#34;&#xA;next</title>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}
