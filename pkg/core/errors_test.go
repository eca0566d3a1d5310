package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

func TestDriverError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDriverError("query", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !IsDriverError(err) {
		t.Error("expected IsDriverError to be true")
	}
	if !strings.Contains(err.Error(), "query") {
		t.Errorf("error message should contain the op, got %q", err.Error())
	}
}

func TestNewDriverError_NoDoubleWrap(t *testing.T) {
	inner := NewDriverError("query", errors.New("timeout"))
	outer := NewDriverError("scroll", fmt.Errorf("wrapped: %w", inner))

	if outer.Op != "query" {
		t.Errorf("got op %q, want original op query", outer.Op)
	}
}

func TestIsDriverError_PlainError(t *testing.T) {
	if IsDriverError(errors.New("plain")) {
		t.Error("plain error should not be a DriverError")
	}
	if IsDriverError(nil) {
		t.Error("nil should not be a DriverError")
	}
}

func TestResolutionFailure(t *testing.T) {
	f := &ResolutionFailure{
		Locator:  locator.Locator{Type: locator.TypeID, Value: "login_btn"},
		Stages:   []Stage{StageDirect, StageScroll, StageSurfaceSwitch},
		Attempts: 7,
	}

	msg := f.Error()
	for _, want := range []string{"login_btn", "direct", "scroll", "surface_switch", "7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q should contain %q", msg, want)
		}
	}

	if !f.Attempted(StageScroll) {
		t.Error("StageScroll should be attempted")
	}
	if f.Attempted(StageHealGenerate) {
		t.Error("StageHealGenerate should not be attempted")
	}
}
