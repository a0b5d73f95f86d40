package dataset

import (
	"strconv"
	"strings"
	"time"

	"pubreport/domain/submission"
	"pubreport/internal/errors"
)

// Date layouts seen in journal exports, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.DataFormat("unrecognized date " + value)
}

// parseIntOrDefault returns def for blank or non-numeric cells
func parseIntOrDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return def
}

// coerceRow builds one submission from a raw row. ID and submitted date
// are mandatory; accepted is blank while a submission is still in review.
func coerceRow(row []string, index map[string]int) (submission.Submission, error) {
	sub := submission.Submission{
		ID:             cell(row, index, "id"),
		Title:          cell(row, index, "title"),
		Track:          cell(row, index, "track"),
		Language:       cell(row, index, "language"),
		Repository:     cell(row, index, "repository"),
		DOI:            cell(row, index, "doi"),
		ReviewIssue:    parseIntOrDefault(cell(row, index, "review_issue"), 0),
		ReviewComments: -1,
		Citations:      -1,
	}

	if sub.ID == "" {
		return submission.Submission{}, errors.DataFormat("row has no id")
	}

	submitted := cell(row, index, "submitted")
	if submitted == "" {
		return submission.Submission{}, errors.DataFormat("row has no submitted date")
	}
	t, err := parseDate(submitted)
	if err != nil {
		return submission.Submission{}, err
	}
	sub.Submitted = t

	if accepted := cell(row, index, "accepted"); accepted != "" {
		t, err := parseDate(accepted)
		if err != nil {
			return submission.Submission{}, err
		}
		sub.Accepted = t
	}

	return sub, nil
}
