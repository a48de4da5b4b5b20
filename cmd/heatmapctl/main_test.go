package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

const fixture = "../../internal/pipeline/testdata/temperature_daily.csv"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--source", fixture}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender_Stdout(t *testing.T) {
	out, err := execute(t, "render", "--level", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "Maximum Temperature by Month and Year")
}

func TestRender_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level2.svg")

	_, err := execute(t, "render", "--level", "2", "--mode", "min", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Daily Temperature Variations by Month and Year")
}

func TestRender_InvalidMode(t *testing.T) {
	_, err := execute(t, "render", "--level", "1", "--mode", "both")
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = execute(t, "render", "--level", "3")
	require.ErrorIs(t, err, domain.ErrInvalidLevel)
}

func TestRender_MissingSource(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--source", filepath.Join(t.TempDir(), "nope.csv"), "render"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestAggregates_JSON(t *testing.T) {
	out, err := execute(t, "aggregates", "--level", "1")
	require.NoError(t, err)

	var doc aggregatesDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Level)
	require.Len(t, doc.Aggregates, 6)
	assert.Equal(t, "2007-01", doc.Aggregates[0].Month)
	require.NotNil(t, doc.Aggregates[0].MaxTemperature)
	assert.InDelta(t, 35, *doc.Aggregates[0].MaxTemperature, 0)
	assert.Empty(t, doc.Aggregates[0].Days)
	assert.Equal(t, 61, doc.Report.Records)
	assert.Len(t, doc.Report.DroppedRows, 1)
	assert.Len(t, doc.Report.Malformed, 1)
}

func TestAggregates_YAMLWithDays(t *testing.T) {
	out, err := execute(t, "aggregates", "--level", "2", "--format", "yaml", "--days")
	require.NoError(t, err)

	var doc aggregatesDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Level)
	require.Len(t, doc.Aggregates, 4)
	assert.Equal(t, "2008-01", doc.Aggregates[0].Month)
	assert.Len(t, doc.Aggregates[0].Days, 10)
	assert.Equal(t, "2008-01-01", doc.Aggregates[0].Days[0].Date)
}

func TestAggregates_UnknownFormat(t *testing.T) {
	_, err := execute(t, "aggregates", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestCell(t *testing.T) {
	out, err := execute(t, "cell", "--year", "2009", "--month", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")

	_, err = execute(t, "cell", "--year", "2007", "--month", "1")
	assert.ErrorIs(t, err, domain.ErrCellNotFound, "2007 is before the level 2 cutoff")

	_, err = execute(t, "cell", "--year", "2009")
	assert.Error(t, err, "month is required")
}
