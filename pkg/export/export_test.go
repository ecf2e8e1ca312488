package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchTable() Table {
	return Table{
		Title:   "Match results 2026-08-29",
		Columns: []string{"person1", "person2", "match_type"},
		Rows: [][]string{
			{"M2", "W1", "double1"},
			{"M1", "W2", "mutual2nd"},
			{"M7"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(matchTable())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "person1,person2,match_type", lines[0])
	assert.Equal(t, "M2,W1,double1", lines[1])
	// Short rows are padded to the full column count.
	assert.Equal(t, "M7,,", lines[3])
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestCSVExporterRejectsWideRow(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{
		Columns: []string{"person1"},
		Rows:    [][]string{{"M1", "extra"}},
	})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(matchTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFExporterRequiresColumns(t *testing.T) {
	_, err := NewPDFExporter().Render(Table{Title: "empty"})
	require.Error(t, err)
}
