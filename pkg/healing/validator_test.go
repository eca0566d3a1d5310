package healing

import (
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/core"
)

func TestValidate_RejectsHiddenOrDisabled(t *testing.T) {
	v := NewValidator(0, true)

	tests := []struct {
		name string
		el   *core.Element
	}{
		{"nil element", nil},
		{"not displayed", &core.Element{Displayed: false, Enabled: true, Text: "Login"}},
		{"not enabled", &core.Element{Displayed: true, Enabled: false, Text: "Login"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v.Validate(tt.el, "login") {
				t.Error("expected rejection")
			}
		})
	}
}

func TestValidate_TextSimilarity(t *testing.T) {
	v := NewValidator(0, false)

	el := &core.Element{Displayed: true, Enabled: true, Text: "login button"}
	if !v.Validate(el, "login_button") {
		t.Error("expected acceptance on high text similarity")
	}
}

func TestValidate_ValueAttributeFallback(t *testing.T) {
	v := NewValidator(0, false)

	el := &core.Element{
		Displayed:  true,
		Enabled:    true,
		Attributes: map[string]string{"value": "login button"},
	}
	if !v.Validate(el, "login_button") {
		t.Error("expected acceptance via value attribute when text is empty")
	}
}

func TestValidate_AttributeSimilarity(t *testing.T) {
	v := NewValidator(0, false)

	el := &core.Element{
		Displayed:  true,
		Enabled:    true,
		Text:       "OK",
		Attributes: map[string]string{"resource-id": "login_button_v2"},
	}
	if !v.Validate(el, "login_button") {
		t.Error("expected acceptance via descriptive attribute similarity")
	}
}

func TestValidate_ExactFloorIsRejectedByChecks(t *testing.T) {
	// Similarity("ab", "ax") is exactly 0.5: the strict > comparison must
	// reject it, so only the permissive rule can accept.
	strict := NewValidator(0, false)
	permissive := NewValidator(0, true)

	el := &core.Element{Displayed: true, Enabled: true, Text: "ax"}

	if strict.Validate(el, "ab") {
		t.Error("similarity of exactly 0.5 must not pass the strict text check")
	}
	if !permissive.Validate(el, "ab") {
		t.Error("permissive mode should accept a displayed+enabled element")
	}
}

func TestValidate_PermissiveDefaultAcceptsDissimilar(t *testing.T) {
	v := NewValidator(0, true)

	// Dissimilar text, no matching attributes, but displayed and enabled.
	el := &core.Element{Displayed: true, Enabled: true, Text: "Sign In"}
	if !v.Validate(el, "login_btn_9f3a") {
		t.Error("permissive validator should accept displayed+enabled element")
	}

	strict := NewValidator(0, false)
	if strict.Validate(el, "login_btn_9f3a") {
		t.Error("strict validator should reject when all similarity checks fail")
	}
}
