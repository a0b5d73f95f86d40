package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pubreport/internal/errors"
	"pubreport/internal/summary"
)

const overviewSheet = "Overview"

// WriteWorkbook renders the summary into an xlsx workbook: an overview
// sheet with the headline numbers, one sheet per table, and native charts
// colored from the palette.
func WriteWorkbook(path string, s *summary.Summary, pal Palette) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return errors.Wrap(err, "failed to create overview sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	if err := writeOverview(f, s, headerStyle); err != nil {
		return err
	}
	for _, table := range s.Tables() {
		if err := writeTable(f, table, headerStyle); err != nil {
			return err
		}
	}

	if err := addMonthlyChart(f, s, pal); err != nil {
		return err
	}
	if err := addTrendChart(f, s, pal); err != nil {
		return err
	}
	if err := addObservationChart(f, s, pal); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}

func writeOverview(f *excelize.File, s *summary.Summary, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Title", s.Title},
		{"Generated At", s.GeneratedAt.Format("2006-01-02 15:04 UTC")},
		{"Submissions", s.Headline.Submissions},
		{"Accepted", s.Headline.AcceptedCount},
		{"Accepted Share", fmt.Sprintf("%.1f%%", s.Headline.AcceptedShare*100)},
		{"Median Review Days", fmt.Sprintf("%.1f", s.Headline.MedianReviewDays)},
		{"P90 Review Days", fmt.Sprintf("%.1f", s.Headline.P90ReviewDays)},
		{"Mean Review Days", fmt.Sprintf("%.1f", s.Headline.MeanReviewDays)},
		{"Trend Days / Year", fmt.Sprintf("%+.1f", s.Headline.TrendDaysPerYear)},
		{"Total Citations", s.Headline.TotalCitations},
		{"Median Review Comments", fmt.Sprintf("%.1f", s.Headline.MedianComments)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "failed to address overview cell")
		}
		if err := f.SetSheetRow(overviewSheet, cell, &row); err != nil {
			return errors.Wrap(err, "failed to write overview row")
		}
	}
	if err := f.SetCellStyle(overviewSheet, "A1", "B1", headerStyle); err != nil {
		return errors.Wrap(err, "failed to style overview header")
	}
	return f.SetColWidth(overviewSheet, "A", "B", 26)
}

func writeTable(f *excelize.File, t summary.Table, headerStyle int) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return errors.Wrapf(err, "failed to create sheet %q", t.Name)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return errors.Wrapf(err, "failed to write header of %q", t.Name)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(err, "failed to address row in %q", t.Name)
		}
		if err := f.SetSheetRow(t.Name, cell, &cells); err != nil {
			return errors.Wrapf(err, "failed to write row in %q", t.Name)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return errors.Wrapf(err, "failed to address header of %q", t.Name)
	}
	if err := f.SetCellStyle(t.Name, "A1", last, headerStyle); err != nil {
		return errors.Wrapf(err, "failed to style header of %q", t.Name)
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
	if err != nil {
		return errors.Wrapf(err, "failed to size columns of %q", t.Name)
	}
	return f.SetColWidth(t.Name, "A", lastCol, 18)
}

// columnRange builds a sheet-qualified absolute range over one column
func columnRange(sheet string, col, firstRow, lastRow int) (string, error) {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, name, firstRow, name, lastRow), nil
}

// addMonthlyChart draws submissions per month as one line per track
func addMonthlyChart(f *excelize.File, s *summary.Summary, pal Palette) error {
	t := s.MonthlyByTrack
	if len(t.Rows) == 0 || len(t.Headers) < 3 {
		return nil
	}
	lastRow := len(t.Rows) + 1

	months, err := columnRange(t.Name, 1, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build monthly chart ranges")
	}

	// Headers run Month, <tracks...>, Total; chart one series per track.
	var series []excelize.ChartSeries
	for i, track := range t.Headers[1 : len(t.Headers)-1] {
		values, err := columnRange(t.Name, i+2, 2, lastRow)
		if err != nil {
			return errors.Wrap(err, "failed to build monthly chart ranges")
		}
		series = append(series, excelize.ChartSeries{
			Name:       track,
			Categories: months,
			Values:     values,
			Fill:       excelize.Fill{Color: []string{pal.SeriesColor(track, i)}},
			Line:       excelize.ChartLine{Width: 1.5},
		})
	}

	anchor, err := excelize.CoordinatesToCellName(len(t.Headers)+2, 2)
	if err != nil {
		return errors.Wrap(err, "failed to place monthly chart")
	}
	err = f.AddChart(t.Name, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Submissions per Month"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{
			Width: 640, Height: 360,
		},
	})
	return errors.Wrap(err, "failed to add monthly chart")
}

// addTrendChart overlays the smoothed review-time line on the monthly
// accepted counts.
func addTrendChart(f *excelize.File, s *summary.Summary, pal Palette) error {
	t := s.Trend
	if len(t.Rows) == 0 {
		return nil
	}
	lastRow := len(t.Rows) + 1

	months, err := columnRange(t.Name, 1, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build trend chart ranges")
	}
	accepted, err := columnRange(t.Name, 2, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build trend chart ranges")
	}
	trend, err := columnRange(t.Name, 3, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build trend chart ranges")
	}

	anchor, err := excelize.CoordinatesToCellName(len(t.Headers)+2, 2)
	if err != nil {
		return errors.Wrap(err, "failed to place trend chart")
	}
	err = f.AddChart(t.Name, anchor, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       "Median Review Days",
			Categories: months,
			Values:     trend,
			Fill:       excelize.Fill{Color: []string{pal.Color("trend", "C00000")}},
			Line:       excelize.ChartLine{Width: 2.25},
		}},
		Title:  []excelize.RichTextRun{{Text: "Review Time Trend"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{
			Width: 640, Height: 360,
		},
	}, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Accepted",
			Categories: months,
			Values:     accepted,
			Fill:       excelize.Fill{Color: []string{pal.Color("accepted", "BFBFBF")}},
		}},
	})
	return errors.Wrap(err, "failed to add trend chart")
}

// addObservationChart scatters the raw review durations behind the trend
func addObservationChart(f *excelize.File, s *summary.Summary, pal Palette) error {
	t := s.Observations
	if len(t.Rows) == 0 {
		return nil
	}
	lastRow := len(t.Rows) + 1

	submitted, err := columnRange(t.Name, 2, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build observation chart ranges")
	}
	days, err := columnRange(t.Name, 3, 2, lastRow)
	if err != nil {
		return errors.Wrap(err, "failed to build observation chart ranges")
	}

	anchor, err := excelize.CoordinatesToCellName(len(t.Headers)+2, 2)
	if err != nil {
		return errors.Wrap(err, "failed to place observation chart")
	}
	err = f.AddChart(t.Name, anchor, &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{{
			Name:       "Review Days",
			Categories: submitted,
			Values:     days,
			Fill:       excelize.Fill{Color: []string{pal.Color("observations", "4472C4")}},
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		}},
		Title:  []excelize.RichTextRun{{Text: "Review Days by Submission Date"}},
		Legend: excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{
			Width: 640, Height: 360,
		},
	})
	return errors.Wrap(err, "failed to add observation chart")
}
