package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/healing"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

func TestWriter_WriteArtifact(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "out"), "http://localhost:4723")

	cache := healing.NewCache()
	cache.Store("id:login_btn_9f3a", healing.Strategy{
		Name:       healing.StrategyPartialID,
		Confidence: 0.7,
		Locator:    locator.Locator{Type: locator.TypeXPath, Value: "//*[starts-with(@resource-id, 'login_btn')]"},
	})

	path, err := w.Write(healing.BuildReport(cache))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(filepath.Base(path), w.RunID()) {
		t.Errorf("artifact name %q should carry the run id %q", path, w.RunID())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if artifact.RunID != w.RunID() {
		t.Errorf("got run id %q, want %q", artifact.RunID, w.RunID())
	}
	if artifact.Healing.TotalHealings != 1 {
		t.Errorf("got %d healings, want 1", artifact.Healing.TotalHealings)
	}
	if artifact.Healing.HealedElements[0].Original != "id:login_btn_9f3a" {
		t.Errorf("unexpected healed element: %+v", artifact.Healing.HealedElements[0])
	}
}

func TestWriter_DistinctRunIDs(t *testing.T) {
	a := NewWriter(t.TempDir(), "")
	b := NewWriter(t.TempDir(), "")
	if a.RunID() == b.RunID() {
		t.Error("run ids should be unique per writer")
	}
}
