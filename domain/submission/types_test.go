package submission

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDataset_Validation(t *testing.T) {
	valid := Submission{ID: "joss.01", Submitted: day(2023, 1, 10)}

	tests := []struct {
		name string
		rows []Submission
	}{
		{"empty", nil},
		{"missing id", []Submission{{Submitted: day(2023, 1, 10)}}},
		{"missing submitted", []Submission{{ID: "joss.01"}}},
		{"duplicate id", []Submission{valid, valid}},
		{"accepted before submitted", []Submission{
			{ID: "joss.01", Submitted: day(2023, 3, 1), Accepted: day(2023, 2, 1)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset(tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestSubmission_DerivedFields(t *testing.T) {
	accepted := Submission{ID: "a", Submitted: day(2023, 11, 15), Accepted: day(2024, 1, 14)}
	pending := Submission{ID: "b", Submitted: day(2023, 11, 15)}

	assert.True(t, accepted.IsAccepted())
	assert.InDelta(t, 60, accepted.ReviewDays(), 1e-9)
	assert.False(t, pending.IsAccepted())
	assert.True(t, math.IsNaN(pending.ReviewDays()))

	assert.Equal(t, "2023-11", accepted.Month())
	assert.Equal(t, "2023Q4", accepted.Quarter())
	assert.Equal(t, "2024Q1", Submission{Submitted: day(2024, 1, 2)}.Quarter())
	assert.InDelta(t, float64(accepted.Submitted.Unix())/86400, accepted.SubmittedDay(), 1e-9)
}

func TestDataset_MonthsSpansGaps(t *testing.T) {
	ds, err := NewDataset([]Submission{
		{ID: "a", Submitted: day(2023, 11, 20)},
		{ID: "b", Submitted: day(2024, 2, 3)},
	})
	require.NoError(t, err)

	// Gap months stay in the span so pivot tables keep zero rows.
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, ds.Months())
}

func TestDataset_Lookups(t *testing.T) {
	ds, err := NewDataset([]Submission{
		{ID: "a", Track: "Biology", Submitted: day(2023, 1, 1), Accepted: day(2023, 2, 1)},
		{ID: "b", Track: "Astronomy", Submitted: day(2023, 1, 5)},
	})
	require.NoError(t, err)

	got, ok := ds.ByID("a")
	require.True(t, ok)
	assert.Equal(t, "Biology", got.Track)
	_, ok = ds.ByID("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Astronomy", "Biology"}, ds.Tracks())
	require.Len(t, ds.Accepted(), 1)
	assert.Equal(t, "a", ds.Accepted()[0].ID)
}
