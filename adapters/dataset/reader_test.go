package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `id,title,track,language,repository,doi,review_issue,submitted,accepted
joss.01201,Widget Toolkit,Astronomy,Python,https://github.com/x/widget,10.21105/joss.01201,1201,2023-01-10,2023-04-02
joss.01305,Mesh Solver,Engineering,C++,https://github.com/x/mesh,10.21105/joss.01305,1305,2023-02-14,
,No ID Row,Astronomy,Python,,,0,2023-03-01,
joss.01410,Bad Date,Biology,R,,,1410,not-a-date,
joss.01502,Stats Helpers,Biology,R,https://github.com/x/stats,10.21105/joss.01502,1502,2023-03-20,2023-06-15
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submissions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_CSV(t *testing.T) {
	reader := NewReader(writeTempCSV(t, sampleCSV))
	subs, err := reader.Read()
	require.NoError(t, err)

	// Two malformed rows (no id, bad date) are skipped, not fatal.
	require.Len(t, subs, 3)

	first := subs[0]
	assert.Equal(t, "joss.01201", first.ID)
	assert.Equal(t, "Astronomy", first.Track)
	assert.Equal(t, 1201, first.ReviewIssue)
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), first.Submitted)
	assert.True(t, first.IsAccepted())
	assert.InDelta(t, 82, first.ReviewDays(), 0.01)

	// Enrichment fields start unknown.
	assert.Equal(t, -1, first.ReviewComments)
	assert.Equal(t, -1, first.Citations)

	// Still in review: zero accepted date.
	assert.False(t, subs[1].IsAccepted())
}

func TestRead_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"id", "title", "track", "language", "repository", "doi", "review_issue", "submitted", "accepted"},
		{"joss.01201", "Widget Toolkit", "Astronomy", "Python", "", "10.21105/joss.01201", "1201", "2023-01-10", "2023-04-02"},
		{"joss.01305", "Mesh Solver", "Engineering", "C++", "", "", "1305", "2023-02-14", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	subs, err := NewReader(path).Read()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "joss.01305", subs[1].ID)
	assert.Equal(t, "Engineering", subs[1].Track)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.csv")).Read()
	assert.Error(t, err)
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, "title,track\nWidget,Astronomy\n")
	_, err := NewReader(path).Read()
	assert.Error(t, err)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "id,submitted\n")
	_, err := NewReader(path).Read()
	assert.Error(t, err)
}
