package summary

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"

	"pubreport/domain/submission"
	"pubreport/internal/errors"
	"pubreport/internal/smooth"
)

// monthlyByTrack pivots submission counts into months x tracks. Months with
// no submissions keep a zero row so the chart axis stays continuous.
func monthlyByTrack(df dataframe.DataFrame, ds *submission.Dataset) (Table, error) {
	grouped := df.GroupBy("month", "track")
	if grouped.Err != nil {
		return Table{}, errors.Wrap(grouped.Err, "monthly grouping failed")
	}
	counts := grouped.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{"n"},
	)
	if counts.Err != nil {
		return Table{}, errors.Wrap(counts.Err, "monthly aggregation failed")
	}

	records := counts.Records()
	monthCol := findColumn(records[0], "month")
	trackCol := findColumn(records[0], "track")
	countCol := findColumn(records[0], "n_COUNT")
	if monthCol < 0 || trackCol < 0 || countCol < 0 {
		return Table{}, errors.InternalError("unexpected monthly aggregation layout")
	}

	byCell := make(map[string]map[string]int)
	trackSet := make(map[string]bool)
	for _, rec := range records[1:] {
		month, track := rec[monthCol], rec[trackCol]
		count := parseCount(rec[countCol])
		if byCell[month] == nil {
			byCell[month] = make(map[string]int)
		}
		byCell[month][track] = count
		trackSet[track] = true
	}

	tracks := make([]string, 0, len(trackSet))
	for track := range trackSet {
		tracks = append(tracks, track)
	}
	sort.Strings(tracks)

	headers := append([]string{"Month"}, tracks...)
	headers = append(headers, "Total")

	var rows [][]string
	for _, month := range ds.Months() {
		row := []string{month}
		total := 0
		for _, track := range tracks {
			count := byCell[month][track]
			total += count
			row = append(row, strconv.Itoa(count))
		}
		row = append(row, strconv.Itoa(total))
		rows = append(rows, row)
	}

	return Table{Name: "Monthly Submissions", Headers: headers, Rows: rows}, nil
}

// reviewByQuarter reports review-duration statistics for accepted
// submissions, grouped by submission quarter.
func reviewByQuarter(ds *submission.Dataset) (Table, error) {
	byQuarter := make(map[string][]float64)
	for _, sub := range ds.Accepted() {
		byQuarter[sub.Quarter()] = append(byQuarter[sub.Quarter()], sub.ReviewDays())
	}

	quarters := make([]string, 0, len(byQuarter))
	for q := range byQuarter {
		quarters = append(quarters, q)
	}
	sort.Strings(quarters)

	var rows [][]string
	for _, q := range quarters {
		days := byQuarter[q]
		median, err := stats.Median(days)
		if err != nil {
			return Table{}, errors.Wrap(err, "quarter median failed")
		}
		p90, err := stats.Percentile(days, 90)
		if err != nil {
			return Table{}, errors.Wrap(err, "quarter p90 failed")
		}
		rows = append(rows, []string{
			q,
			strconv.Itoa(len(days)),
			fmt.Sprintf("%.1f", median),
			fmt.Sprintf("%.1f", p90),
		})
	}

	return Table{
		Name:    "Review Time by Quarter",
		Headers: []string{"Quarter", "Accepted", "Median Days", "P90 Days"},
		Rows:    rows,
	}, nil
}

// languageBreakdown counts submissions per language with their share
func languageBreakdown(df dataframe.DataFrame, total int) (Table, error) {
	grouped := df.GroupBy("language")
	if grouped.Err != nil {
		return Table{}, errors.Wrap(grouped.Err, "language grouping failed")
	}
	counts := grouped.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{"n"},
	)
	if counts.Err != nil {
		return Table{}, errors.Wrap(counts.Err, "language aggregation failed")
	}

	records := counts.Records()
	langCol := findColumn(records[0], "language")
	countCol := findColumn(records[0], "n_COUNT")
	if langCol < 0 || countCol < 0 {
		return Table{}, errors.InternalError("unexpected language aggregation layout")
	}

	type langCount struct {
		language string
		count    int
	}
	byLang := make([]langCount, 0, len(records)-1)
	for _, rec := range records[1:] {
		byLang = append(byLang, langCount{rec[langCol], parseCount(rec[countCol])})
	}
	sort.Slice(byLang, func(i, j int) bool {
		if byLang[i].count != byLang[j].count {
			return byLang[i].count > byLang[j].count
		}
		return byLang[i].language < byLang[j].language
	})

	var rows [][]string
	for _, lc := range byLang {
		share := float64(lc.count) / float64(total) * 100
		rows = append(rows, []string{
			lc.language,
			strconv.Itoa(lc.count),
			fmt.Sprintf("%.1f%%", share),
		})
	}

	return Table{
		Name:    "Languages",
		Headers: []string{"Language", "Submissions", "Share"},
		Rows:    rows,
	}, nil
}

// citationTable left-joins the citation cache onto accepted submissions by
// DOI. Submissions whose DOI is not in the cache render as "unknown".
func citationTable(ds *submission.Dataset, citations map[string]int) (Table, error) {
	headers := []string{"ID", "Title", "Track", "DOI", "Citations"}

	var ids, titles, tracks, dois []string
	for _, sub := range ds.Accepted() {
		if sub.DOI == "" {
			continue
		}
		ids = append(ids, sub.ID)
		titles = append(titles, sub.Title)
		tracks = append(tracks, labelOrUnknown(sub.Track))
		dois = append(dois, sub.DOI)
	}
	if len(ids) == 0 {
		return Table{Name: "Citations", Headers: headers}, nil
	}

	accepted := dataframe.New(
		series.New(dois, series.String, "doi"),
		series.New(ids, series.String, "id"),
		series.New(titles, series.String, "title"),
		series.New(tracks, series.String, "track"),
	)

	citedDois := make([]string, 0, len(citations))
	for doi := range citations {
		citedDois = append(citedDois, doi)
	}
	sort.Strings(citedDois)
	citedCounts := make([]int, len(citedDois))
	for i, doi := range citedDois {
		citedCounts[i] = citations[doi]
	}

	joined := accepted
	if len(citedDois) > 0 {
		cited := dataframe.New(
			series.New(citedDois, series.String, "doi"),
			series.New(citedCounts, series.Int, "citations"),
		)
		joined = accepted.LeftJoin(cited, "doi")
		if joined.Err != nil {
			return Table{}, errors.Wrap(joined.Err, "citation join failed")
		}
	}

	records := joined.Records()
	idCol := findColumn(records[0], "id")
	titleCol := findColumn(records[0], "title")
	trackCol := findColumn(records[0], "track")
	doiCol := findColumn(records[0], "doi")
	citeCol := findColumn(records[0], "citations")

	type citedRow struct {
		cells []string
		count int
		known bool
	}
	var cells []citedRow
	for _, rec := range records[1:] {
		count, known := 0, false
		if citeCol >= 0 {
			if n, err := strconv.ParseFloat(rec[citeCol], 64); err == nil && !math.IsNaN(n) {
				count, known = int(math.Round(n)), true
			}
		}
		rendered := "unknown"
		if known {
			rendered = strconv.Itoa(count)
		}
		cells = append(cells, citedRow{
			cells: []string{rec[idCol], rec[titleCol], rec[trackCol], rec[doiCol], rendered},
			count: count,
			known: known,
		})
	}

	// Most-cited first, unknowns last.
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].known != cells[j].known {
			return cells[i].known
		}
		return cells[i].count > cells[j].count
	})

	var rows [][]string
	for _, row := range cells {
		rows = append(rows, row.cells)
	}

	return Table{Name: "Citations", Headers: headers, Rows: rows}, nil
}

// trendTable samples the smoothed curve at month midpoints. Months outside
// the curve's range stay blank; the chart leaves gaps rather than
// extrapolating.
func trendTable(ds *submission.Dataset, curve *smooth.Curve) Table {
	acceptedPerMonth := make(map[string]int)
	for _, sub := range ds.Accepted() {
		acceptedPerMonth[sub.Month()]++
	}

	var rows [][]string
	for _, month := range ds.Months() {
		trend := ""
		if curve != nil {
			if start, err := time.Parse("2006-01", month); err == nil {
				midpoint := float64(start.AddDate(0, 0, 14).Unix()) / 86400
				if v, ok := curve.At(midpoint); ok {
					trend = fmt.Sprintf("%.1f", v)
				}
			}
		}
		rows = append(rows, []string{
			month,
			strconv.Itoa(acceptedPerMonth[month]),
			trend,
		})
	}

	return Table{
		Name:    "Review Time Trend",
		Headers: []string{"Month", "Accepted", "Trend Days"},
		Rows:    rows,
	}
}

// observationTable lists the raw accepted rows behind the trend chart
func observationTable(ds *submission.Dataset) Table {
	var rows [][]string
	for _, sub := range ds.Accepted() {
		comments := "unknown"
		if sub.ReviewComments >= 0 {
			comments = strconv.Itoa(sub.ReviewComments)
		}
		rows = append(rows, []string{
			sub.ID,
			sub.Submitted.Format("2006-01-02"),
			fmt.Sprintf("%.1f", sub.ReviewDays()),
			comments,
		})
	}

	return Table{
		Name:    "Review Observations",
		Headers: []string{"ID", "Submitted", "Review Days", "Review Comments"},
		Rows:    rows,
	}
}

func findColumn(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

func parseCount(value string) int {
	if n, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(n) {
		return int(math.Round(n))
	}
	return 0
}
