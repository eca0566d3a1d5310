package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/driver/mock"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
	"github.com/testzen-dev/testzen-runner/pkg/logger"
)

func TestResolve_SwitchesToWebviewAndStays(t *testing.T) {
	d := mock.New()
	d.AddSurface("WEBVIEW_com.example")
	d.Place("WEBVIEW_com.example", locator.Locator{Type: locator.TypeID, Value: "checkout"},
		visibleButton("checkout", "Checkout"))
	e := newTestEngine(d)

	res, err := e.Resolve(locator.TypeID, "checkout", "checkout button", ActionTap, 0)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Surface != "WEBVIEW_com.example" {
		t.Errorf("got surface %q, want the webview", res.Surface)
	}
	if cur, _ := d.CurrentSurface(); cur != "WEBVIEW_com.example" {
		t.Errorf("driver is on %q, want to stay on the surface that worked", cur)
	}
}

func TestResolve_RestoresSurfaceOnTotalFailure(t *testing.T) {
	d := mock.New()
	d.AddSurface("WEBVIEW_com.example")
	e := newTestEngine(d)

	_, err := e.Resolve(locator.TypeXPath, "//a/b", "divider", ActionNone, 0)
	var rf *core.ResolutionFailure
	if !errors.As(err, &rf) {
		t.Fatalf("got %v, want a resolution failure", err)
	}
	if !rf.Attempted(core.StageSurfaceSwitch) {
		t.Errorf("failure should record the surface-switch stage: %v", rf.Stages)
	}
	if cur, _ := d.CurrentSurface(); cur != mock.DefaultSurface {
		t.Errorf("driver is on %q, want the originating surface restored", cur)
	}

	// The webview tries must be attributed to that surface in the trace.
	var onWebview bool
	for _, a := range rf.Trace {
		if a.Stage == core.StageSurfaceSwitch && a.Surface == "WEBVIEW_com.example" {
			onWebview = true
		}
		if a.Stage != core.StageSurfaceSwitch && a.Surface != "" {
			t.Errorf("non-surface try carries a surface: %+v", a)
		}
	}
	if !onWebview {
		t.Errorf("no trace record for the webview tries: %+v", rf.Trace)
	}
}

func TestResolve_SurfaceEnumerationFailureIsStageLocal(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	if err := logger.Init(logPath, false); err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	d := mock.New()
	d.AddSurface("WEBVIEW_com.example")
	d.SurfacesErr = errors.New("chromedriver gone")
	e := newTestEngine(d)

	_, err := e.Resolve(locator.TypeXPath, "//a/b", "divider", ActionNone, 0)
	var rf *core.ResolutionFailure
	if !errors.As(err, &rf) {
		t.Fatalf("got %v, want a resolution failure, not a driver error", err)
	}
	if rf.Attempted(core.StageSurfaceSwitch) {
		t.Errorf("unenumerable surfaces must skip the stage: %v", rf.Stages)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "surface enumeration failed") {
		t.Errorf("swallowed enumeration error should be logged, log:\n%s", data)
	}
}

func TestResolve_SingleSurfaceSkipsSwitching(t *testing.T) {
	d := mock.New()
	e := newTestEngine(d)

	_, err := e.Resolve(locator.TypeXPath, "//a/b", "divider", ActionNone, 0)
	var rf *core.ResolutionFailure
	if !errors.As(err, &rf) {
		t.Fatalf("got %v, want a resolution failure", err)
	}
	if rf.Attempted(core.StageSurfaceSwitch) {
		t.Errorf("single-surface app must skip the surface stage: %v", rf.Stages)
	}
	if len(d.SwitchLog) != 0 {
		t.Errorf("no switches expected, got %v", d.SwitchLog)
	}
}

func TestResolve_SwitchFailureSkipsSurface(t *testing.T) {
	d := mock.New()
	d.AddSurface("WEBVIEW_broken")
	d.AddSurface("WEBVIEW_ok")
	d.SwitchErrs["WEBVIEW_broken"] = errors.New("chromedriver not running")
	d.Place("WEBVIEW_ok", locator.Locator{Type: locator.TypeID, Value: "checkout"},
		visibleButton("checkout", "Checkout"))
	e := newTestEngine(d)

	res, err := e.Resolve(locator.TypeID, "checkout", "checkout button", ActionTap, 0)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Surface != "WEBVIEW_ok" {
		t.Errorf("got surface %q, want the reachable webview", res.Surface)
	}
}
