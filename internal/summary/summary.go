// Package summary derives the report's tables from the submissions dataset:
// monthly counts pivoted by track, review-time statistics per quarter, the
// language breakdown, and citations joined onto accepted submissions.
package summary

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"pubreport/domain/submission"
	"pubreport/internal/errors"
	"pubreport/internal/smooth"
)

// Table is one rendered summary table: headers plus stringified rows,
// ready for the workbook writer and the JSON endpoint.
type Table struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Headline holds the report's top-line numbers
type Headline struct {
	Submissions      int     `json:"submissions"`
	AcceptedCount    int     `json:"accepted"`
	AcceptedShare    float64 `json:"accepted_share"`
	MedianReviewDays float64 `json:"median_review_days"`
	P90ReviewDays    float64 `json:"p90_review_days"`
	MeanReviewDays   float64 `json:"mean_review_days"`
	ReviewDaysStdDev float64 `json:"review_days_stddev"`
	TrendDaysPerYear float64 `json:"trend_days_per_year"`
	TotalCitations   int     `json:"total_citations"`
	MedianComments   float64 `json:"median_review_comments"`
}

// Summary is everything the report renders
type Summary struct {
	Title           string    `json:"title"`
	GeneratedAt     time.Time `json:"generated_at"`
	Headline        Headline  `json:"headline"`
	MonthlyByTrack  Table     `json:"monthly_by_track"`
	ReviewByQuarter Table     `json:"review_by_quarter"`
	Languages       Table     `json:"languages"`
	Citations       Table     `json:"citations"`
	Trend           Table     `json:"trend"`
	Observations    Table     `json:"observations"`

	// TrendCurve is the windowed-median smoother output backing the Trend
	// table; the chart builder receives it explicitly.
	TrendCurve *smooth.Curve `json:"-"`
}

// Tables returns the tables in report order
func (s *Summary) Tables() []Table {
	return []Table{
		s.MonthlyByTrack,
		s.ReviewByQuarter,
		s.Languages,
		s.Citations,
		s.Trend,
		s.Observations,
	}
}

// Build derives the full summary. citations maps DOI -> citation count
// (the citation cache contents); windowDays is the median smoothing window.
func Build(title string, ds *submission.Dataset, citations map[string]int, windowDays float64) (*Summary, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.InvalidArgument("dataset is empty")
	}
	if windowDays <= 0 {
		return nil, errors.InvalidArgument("smoothing window must be positive")
	}

	df := baseFrame(ds)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "failed to build base dataframe")
	}

	s := &Summary{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
	}

	var err error
	if s.MonthlyByTrack, err = monthlyByTrack(df, ds); err != nil {
		return nil, err
	}
	if s.ReviewByQuarter, err = reviewByQuarter(ds); err != nil {
		return nil, err
	}
	if s.Languages, err = languageBreakdown(df, ds.Len()); err != nil {
		return nil, err
	}
	if s.Citations, err = citationTable(ds, citations); err != nil {
		return nil, err
	}

	s.TrendCurve = trendCurve(ds, windowDays)
	s.Trend = trendTable(ds, s.TrendCurve)
	s.Observations = observationTable(ds)
	s.Headline = headline(ds)

	return s, nil
}

// baseFrame builds the typed dataframe the groupings run on
func baseFrame(ds *submission.Dataset) dataframe.DataFrame {
	n := ds.Len()
	ids := make([]string, n)
	months := make([]string, n)
	tracks := make([]string, n)
	languages := make([]string, n)
	reviewDays := make([]float64, n)
	ones := make([]float64, n)

	for i, sub := range ds.Submissions {
		ids[i] = sub.ID
		months[i] = sub.Month()
		tracks[i] = labelOrUnknown(sub.Track)
		languages[i] = labelOrUnknown(sub.Language)
		reviewDays[i] = sub.ReviewDays()
		ones[i] = 1
	}

	return dataframe.New(
		series.New(ids, series.String, "id"),
		series.New(months, series.String, "month"),
		series.New(tracks, series.String, "track"),
		series.New(languages, series.String, "language"),
		series.New(reviewDays, series.Float, "review_days"),
		series.New(ones, series.Float, "n"),
	)
}

func labelOrUnknown(label string) string {
	if label == "" {
		return "Unknown"
	}
	return label
}

// trendCurve smooths review duration over submission date. Needs at least
// two accepted submissions; otherwise there is no trend to draw.
func trendCurve(ds *submission.Dataset, windowDays float64) *smooth.Curve {
	accepted := ds.Accepted()
	if len(accepted) < 2 {
		return nil
	}

	xs := make([]float64, len(accepted))
	ys := make([]float64, len(accepted))
	for i, sub := range accepted {
		xs[i] = sub.SubmittedDay()
		ys[i] = sub.ReviewDays()
	}

	curve, err := smooth.WindowedMedian(xs, ys, windowDays)
	if err != nil {
		return nil
	}
	return curve
}

// headline computes the top-line numbers with montanaflynn/stats and gonum
func headline(ds *submission.Dataset) Headline {
	h := Headline{Submissions: ds.Len()}

	var reviewDays []float64
	var reviewXs []float64
	var comments []float64
	for _, sub := range ds.Submissions {
		if sub.IsAccepted() {
			h.AcceptedCount++
			reviewDays = append(reviewDays, sub.ReviewDays())
			reviewXs = append(reviewXs, sub.SubmittedDay())
		}
		if sub.ReviewComments >= 0 {
			comments = append(comments, float64(sub.ReviewComments))
		}
		if sub.Citations > 0 {
			h.TotalCitations += sub.Citations
		}
	}
	h.AcceptedShare = float64(h.AcceptedCount) / float64(ds.Len())

	if len(reviewDays) > 0 {
		h.MedianReviewDays, _ = stats.Median(reviewDays)
		h.P90ReviewDays, _ = stats.Percentile(reviewDays, 90)
		h.MeanReviewDays = stat.Mean(reviewDays, nil)
		h.ReviewDaysStdDev = stat.StdDev(reviewDays, nil)
	}
	if len(reviewDays) >= 2 {
		_, slope := stat.LinearRegression(reviewXs, reviewDays, nil, false)
		h.TrendDaysPerYear = slope * 365.25
	}
	if len(comments) > 0 {
		h.MedianComments, _ = stats.Median(comments)
	}
	if math.IsNaN(h.TrendDaysPerYear) {
		h.TrendDaysPerYear = 0
	}
	return h
}
