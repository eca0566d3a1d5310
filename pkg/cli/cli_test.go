package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCapabilities_Defaults(t *testing.T) {
	caps, err := loadCapabilities("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps["platformName"] != "Android" {
		t.Errorf("got platform %v, want Android default", caps["platformName"])
	}
}

func TestLoadCapabilities_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.json")
	content := `{"platformName": "iOS", "appium:automationName": "XCUITest"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	caps, err := loadCapabilities(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps["platformName"] != "iOS" {
		t.Errorf("got platform %v, want iOS", caps["platformName"])
	}
}

func TestLoadCapabilities_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caps.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCapabilities(path); err == nil {
		t.Error("expected an error for malformed capabilities")
	}
}

func TestLatestArtifact(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "healing-aaa.json")
	newer := filepath.Join(dir, "healing-bbb.json")
	if err := os.WriteFile(older, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, old, old); err != nil {
		t.Fatal(err)
	}

	got, err := latestArtifact(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != newer {
		t.Errorf("got %q, want the newest artifact %q", got, newer)
	}
}

func TestLatestArtifact_Empty(t *testing.T) {
	if _, err := latestArtifact(t.TempDir()); err == nil {
		t.Error("expected an error for an empty report dir")
	}
}
