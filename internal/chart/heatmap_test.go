package chart

import (
	"bytes"
	"math"
	"testing"

	"smartanalyzer/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() *analysis.CorrelationMatrix {
	return &analysis.CorrelationMatrix{
		Columns: []string{"age", "income", "score"},
		Values: [][]float64{
			{1, 0.42, -0.8},
			{0.42, 1, math.NaN()},
			{-0.8, math.NaN(), 1},
		},
	}
}

func TestRenderHeatmap_SVG(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHeatmap(&buf, sampleMatrix(), FormatSVG, HeatmapOptions{CellSize: 48})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, DefaultTitle)
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "0.42")
	assert.Contains(t, out, "-0.80")
	assert.Contains(t, out, "income")
	assert.Contains(t, out, "nan")
}

func TestRenderHeatmap_PNG(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHeatmap(&buf, sampleMatrix(), FormatPNG, HeatmapOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderHeatmap_SingleColumn(t *testing.T) {
	m := &analysis.CorrelationMatrix{Columns: []string{"age"}, Values: [][]float64{{1}}}
	var buf bytes.Buffer
	require.NoError(t, RenderHeatmap(&buf, m, FormatSVG, HeatmapOptions{Title: "Ages"}))
	assert.Contains(t, buf.String(), "Ages")
}

func TestRenderHeatmap_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderHeatmap(&buf, sampleMatrix(), Format("gif"), HeatmapOptions{}))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	assert.Equal(t, "image/png", ContentType(f))

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", ContentType(f))

	_, err = ParseFormat("jpg")
	assert.Error(t, err)
}

func TestRenderHeatmap_SVGEscapesColumnNames(t *testing.T) {
	m := &analysis.CorrelationMatrix{
		Columns: []string{"<script>alert(1)</script>", "a&b"},
		Values:  [][]float64{{1, 0.5}, {0.5, 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHeatmap(&buf, m, FormatSVG, HeatmapOptions{}))

	out := buf.String()
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, out, "a&amp;b")
}

func TestRenderHeatmap_PNGIgnoresMarkup(t *testing.T) {
	m := &analysis.CorrelationMatrix{Columns: []string{"<b>x</b>"}, Values: [][]float64{{1}}}
	var buf bytes.Buffer
	require.NoError(t, RenderHeatmap(&buf, m, FormatPNG, HeatmapOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
