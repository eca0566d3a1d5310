// Package report writes the healing report artifact consumed by the external
// reporting pipeline. The artifact is plain JSON on disk; rendering (HTML,
// dashboards) happens downstream.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/testzen-dev/testzen-runner/pkg/healing"
)

// Artifact is the on-disk healing report: run metadata plus the healing
// summary for one automation session.
type Artifact struct {
	RunID       string          `json:"runId"`
	StartTime   time.Time       `json:"startTime"`
	GeneratedAt time.Time       `json:"generatedAt"`
	AppiumURL   string          `json:"appiumUrl,omitempty"`
	Healing     *healing.Report `json:"healing"`
}

// Writer accumulates run metadata and writes the artifact.
type Writer struct {
	outputDir string
	runID     string
	start     time.Time
	appiumURL string
}

// NewWriter creates a writer for one run. Each writer gets a fresh run ID.
func NewWriter(outputDir, appiumURL string) *Writer {
	return &Writer{
		outputDir: outputDir,
		runID:     uuid.New().String(),
		start:     time.Now(),
		appiumURL: appiumURL,
	}
}

// RunID returns the run identifier baked into the artifact filename.
func (w *Writer) RunID() string {
	return w.runID
}

// Write persists the healing report and returns the artifact path.
func (w *Writer) Write(rep *healing.Report) (string, error) {
	if err := ensureDir(w.outputDir); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	artifact := Artifact{
		RunID:       w.runID,
		StartTime:   w.start,
		GeneratedAt: time.Now(),
		AppiumURL:   w.appiumURL,
		Healing:     rep,
	}
	path := filepath.Join(w.outputDir, "healing-"+w.runID+".json")
	if err := atomicWriteJSON(path, artifact); err != nil {
		return "", fmt.Errorf("write healing report: %w", err)
	}
	return path, nil
}

// ensureDir creates the directory if needed.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// atomicWriteJSON writes JSON via a temp file and rename, so a crashed run
// never leaves a half-written artifact behind.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
