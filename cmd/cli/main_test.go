package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "age,city,plan\n20,A,X\n30,B,Y\n40,A,X\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_Text(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, _, err := execute(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "File: people.csv (csv), 3 rows x 3 columns")
	assert.Contains(t, out, "Descriptive Statistics")
	assert.Contains(t, out, "30.0000")
	assert.Contains(t, out, "χ² = 0.19, p-value = 0.6650")
	assert.Contains(t, out, `city \ plan`)
	assert.Contains(t, out, "Analysis complete!")
}

func TestAnalyze_MarkdownSelection(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, _, err := execute(t, "analyze", path, "--format", "markdown", "--col1", "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "## Data Preview")
	assert.Contains(t, out, "Chi-square test between **plan** and **city**.")
}

func TestAnalyze_JSONMultipleFilesInOrder(t *testing.T) {
	first := writeFile(t, "people.csv", peopleCSV)
	second := writeFile(t, "scores.json", `[{"score": 1}, {"score": 2}]`)

	out, _, err := execute(t, "analyze", first, second, "--format", "json")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "people.csv", docs[0]["file"])
	assert.Equal(t, "scores.json", docs[1]["file"])
	assert.Nil(t, docs[1]["chi_square"])
}

func TestAnalyze_FailuresExitNonZero(t *testing.T) {
	good := writeFile(t, "people.csv", peopleCSV)
	bad := writeFile(t, "notes.txt", peopleCSV)

	out, errOut, err := execute(t, "analyze", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Contains(t, out, "people.csv")
	assert.Contains(t, errOut, "notes.txt")
}

func TestAnalyze_UnknownFormat(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	_, _, err := execute(t, "analyze", path, "--format", "yaml")
	require.Error(t, err)
}

func TestHeatmap(t *testing.T) {
	path := writeFile(t, "people.csv", "a,b\n1,2\n2,5\n3,7\n")
	output := filepath.Join(t.TempDir(), "out.png")

	out, _, err := execute(t, "heatmap", path, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestHeatmap_NoNumericColumns(t *testing.T) {
	path := writeFile(t, "labels.csv", "a,b\nx,y\n")
	output := filepath.Join(t.TempDir(), "out.svg")

	_, _, err := execute(t, "heatmap", path, "-o", output)
	require.Error(t, err)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormats(t *testing.T) {
	out, _, err := execute(t, "formats")
	require.NoError(t, err)
	assert.Equal(t, "csv\nfeather\njson\nxls\nxlsx\nxml\n", out)
}
