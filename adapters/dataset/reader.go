// Package dataset loads the submissions table from a CSV or XLSX export.
package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pubreport/domain/submission"
	"pubreport/internal"
	"pubreport/internal/errors"
)

// Reader handles reading Excel and CSV submission files
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewReader creates a reader that handles both Excel and CSV files
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{
		filePath: filePath,
		fileType: fileType,
		logger:   internal.DefaultLogger,
	}
}

// Read loads all submission rows. Rows that cannot be coerced (missing ID
// or submitted date) are skipped with a warning rather than failing the
// whole load.
func (r *Reader) Read() ([]submission.Submission, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound("dataset file " + r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.DataFormat("dataset needs a header row and at least one data row")
	}

	return r.processRows(rows)
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Sheet1")
	}
	return rows, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

// processRows converts raw string rows into submissions
func (r *Reader) processRows(rows [][]string) ([]submission.Submission, error) {
	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}

	for _, required := range []string{"id", "submitted"} {
		if _, ok := index[required]; !ok {
			return nil, errors.DataFormat("dataset is missing required column " + required)
		}
	}

	subs := make([]submission.Submission, 0, len(rows)-1)
	skipped := 0
	for n, row := range rows[1:] {
		sub, err := coerceRow(row, index)
		if err != nil {
			r.logger.Warn("skipping dataset row %d: %v", n+2, err)
			skipped++
			continue
		}
		subs = append(subs, sub)
	}

	r.logger.Info("loaded %d submissions from %s (%d rows skipped)", len(subs), r.filePath, skipped)
	return subs, nil
}
