package report

import (
	"time"

	"github.com/google/uuid"

	"pubreport/internal/enrich"
)

// Manifest records what one report run saw and produced, written next to
// the report so a run can be traced back to its inputs.
type Manifest struct {
	RunID       string       `json:"run_id"`
	Title       string       `json:"title"`
	DatasetPath string       `json:"dataset_path"`
	Rows        int          `json:"rows"`
	WindowDays  float64      `json:"window_days"`
	Enrich      enrich.Stats `json:"enrich"`
	Files       []string     `json:"files"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Meta carries the run inputs the manifest records
type Meta struct {
	Title       string
	DatasetPath string
	Rows        int
	WindowDays  float64
	Enrich      enrich.Stats
}

func newManifest(meta Meta, files []string) *Manifest {
	return &Manifest{
		RunID:       uuid.New().String(),
		Title:       meta.Title,
		DatasetPath: meta.DatasetPath,
		Rows:        meta.Rows,
		WindowDays:  meta.WindowDays,
		Enrich:      meta.Enrich,
		Files:       files,
		CreatedAt:   time.Now().UTC(),
	}
}
