package submission

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pubreport/internal/errors"
)

const secondsPerDay = 86400

// Submission is one journal submission row. External enrichment fields
// (ReviewComments, Citations) use -1 for "not fetched yet".
type Submission struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Track          string    `json:"track" db:"track"`
	Language       string    `json:"language" db:"language"`
	Repository     string    `json:"repository" db:"repository"`
	DOI            string    `json:"doi" db:"doi"`
	ReviewIssue    int       `json:"review_issue" db:"review_issue"`
	Submitted      time.Time `json:"submitted" db:"submitted"`
	Accepted       time.Time `json:"accepted" db:"accepted"`
	ReviewComments int       `json:"review_comments" db:"review_comments"`
	Citations      int       `json:"citations" db:"citations"`
}

// IsAccepted reports whether the submission finished review
func (s Submission) IsAccepted() bool {
	return !s.Accepted.IsZero()
}

// ReviewDays returns the review duration in days, NaN while under review
func (s Submission) ReviewDays() float64 {
	if !s.IsAccepted() {
		return math.NaN()
	}
	return s.Accepted.Sub(s.Submitted).Hours() / 24
}

// SubmittedDay returns the submission date as fractional days since the
// Unix epoch, the x-axis unit used for trend smoothing.
func (s Submission) SubmittedDay() float64 {
	return float64(s.Submitted.Unix()) / secondsPerDay
}

// Month returns the submission month label, e.g. "2023-04"
func (s Submission) Month() string {
	return s.Submitted.Format("2006-01")
}

// Quarter returns the submission quarter label, e.g. "2023Q2"
func (s Submission) Quarter() string {
	return fmt.Sprintf("%dQ%d", s.Submitted.Year(), (int(s.Submitted.Month())-1)/3+1)
}

// Dataset is an ordered collection of submissions with ID lookup
type Dataset struct {
	Submissions []Submission
	byID        map[string]int
}

// NewDataset validates the rows and builds the lookup index
func NewDataset(rows []Submission) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidArgument("dataset is empty")
	}

	byID := make(map[string]int, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			return nil, errors.DataFormat(fmt.Sprintf("row %d has no submission ID", i))
		}
		if row.Submitted.IsZero() {
			return nil, errors.DataFormat(fmt.Sprintf("submission %s has no submitted date", row.ID))
		}
		if row.IsAccepted() && row.Accepted.Before(row.Submitted) {
			return nil, errors.DataFormat(fmt.Sprintf("submission %s accepted before submitted", row.ID))
		}
		if _, dup := byID[row.ID]; dup {
			return nil, errors.DataFormat(fmt.Sprintf("duplicate submission ID %s", row.ID))
		}
		byID[row.ID] = i
	}

	return &Dataset{Submissions: rows, byID: byID}, nil
}

// Len returns the number of submissions
func (d *Dataset) Len() int {
	return len(d.Submissions)
}

// ByID returns the submission with the given ID
func (d *Dataset) ByID(id string) (Submission, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Submission{}, false
	}
	return d.Submissions[i], true
}

// Tracks returns the distinct track labels in sorted order
func (d *Dataset) Tracks() []string {
	seen := make(map[string]bool)
	for _, s := range d.Submissions {
		if s.Track != "" {
			seen[s.Track] = true
		}
	}
	tracks := make([]string, 0, len(seen))
	for t := range seen {
		tracks = append(tracks, t)
	}
	sort.Strings(tracks)
	return tracks
}

// Months returns every month label from the first to the last submission
// date inclusive, so pivot tables keep empty months.
func (d *Dataset) Months() []string {
	var first, last time.Time
	for _, s := range d.Submissions {
		if first.IsZero() || s.Submitted.Before(first) {
			first = s.Submitted
		}
		if last.IsZero() || s.Submitted.After(last) {
			last = s.Submitted
		}
	}

	var months []string
	cursor := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		months = append(months, cursor.Format("2006-01"))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

// Accepted returns only the submissions that finished review
func (d *Dataset) Accepted() []Submission {
	var accepted []Submission
	for _, s := range d.Submissions {
		if s.IsAccepted() {
			accepted = append(accepted, s)
		}
	}
	return accepted
}
