// Package ui serves a read-only preview of the last report run: the
// rendered markdown summary, the workbook download, and the summary JSON.
package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"pubreport/internal"
	"pubreport/internal/report"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Report Preview</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
th { background: #4472c4; color: #fff; }
</style>
</head>
<body>
<p><a href="/report.xlsx">Download workbook</a> · <a href="/api/summary">Summary JSON</a></p>
%s
</body>
</html>`

// Server serves one output directory over HTTP
type Server struct {
	outDir string
	logger *internal.Logger
}

// NewServer creates a preview server over outDir, the output directory of
// an earlier report run.
func NewServer(outDir string) *Server {
	return &Server{outDir: outDir, logger: internal.DefaultLogger}
}

// Router builds the chi router with all preview routes
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/report.xlsx", s.handleWorkbook)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe blocks serving the preview on the given port
func (s *Server) ListenAndServe(port string) error {
	s.logger.Info("preview server listening on :%s (serving %s)", port, s.outDir)
	return http.ListenAndServe(":"+port, s.Router())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(filepath.Join(s.outDir, report.MarkdownFile))
	if err != nil {
		http.Error(w, "no report has been generated yet", http.StatusNotFound)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML(raw, p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, body)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.outDir, report.WorkbookFile)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "no report has been generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.outDir, report.SummaryFile)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "no report has been generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
