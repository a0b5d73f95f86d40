package report

import (
	"bytes"
	"fmt"
	"strings"

	"pubreport/internal/summary"
)

// RenderMarkdown renders the summary as a markdown document: headline
// numbers followed by every table. The preview server converts it to HTML.
func RenderMarkdown(s *summary.Summary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", s.Title)
	fmt.Fprintf(&buf, "Generated %s.\n\n", s.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	h := s.Headline
	fmt.Fprintf(&buf, "- **Submissions:** %d (%d accepted, %.1f%%)\n",
		h.Submissions, h.AcceptedCount, h.AcceptedShare*100)
	fmt.Fprintf(&buf, "- **Median review time:** %.1f days (p90 %.1f, mean %.1f ± %.1f)\n",
		h.MedianReviewDays, h.P90ReviewDays, h.MeanReviewDays, h.ReviewDaysStdDev)
	fmt.Fprintf(&buf, "- **Review time trend:** %+.1f days per year\n", h.TrendDaysPerYear)
	fmt.Fprintf(&buf, "- **Citations of accepted submissions:** %d\n", h.TotalCitations)
	fmt.Fprintf(&buf, "- **Median review comments:** %.1f\n\n", h.MedianComments)

	for _, table := range s.Tables() {
		writeMarkdownTable(&buf, table)
	}

	return buf.Bytes()
}

func writeMarkdownTable(buf *bytes.Buffer, t summary.Table) {
	fmt.Fprintf(buf, "## %s\n\n", t.Name)
	if len(t.Rows) == 0 {
		buf.WriteString("_No data._\n\n")
		return
	}

	fmt.Fprintf(buf, "| %s |\n", strings.Join(t.Headers, " | "))
	buf.WriteString("|")
	for range t.Headers {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")
	for _, row := range t.Rows {
		fmt.Fprintf(buf, "| %s |\n", strings.Join(row, " | "))
	}
	buf.WriteString("\n")
}
