package resolver

import (
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/core"
)

func TestActionable(t *testing.T) {
	tests := []struct {
		name   string
		el     *core.Element
		action Action
		want   bool
	}{
		{"nil element", nil, ActionNone, false},
		{"hidden", &core.Element{Displayed: false, Enabled: true}, ActionNone, false},
		{"disabled", &core.Element{Displayed: true, Enabled: false}, ActionNone, false},
		{"plain visible", &core.Element{Displayed: true, Enabled: true}, ActionNone, true},

		{"tap via clickable attr",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.view.View",
				Attributes: map[string]string{"clickable": "true"}}, ActionTap, true},
		{"tap via button class",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.widget.Button"}, ActionTap, true},
		{"tap on static text",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.widget.TextView"}, ActionTap, false},

		{"input via edittext class",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.widget.EditText"}, ActionInput, true},
		{"input via focusable attr",
			&core.Element{Displayed: true, Enabled: true, Tag: "XCUIElementTypeOther",
				Attributes: map[string]string{"focusable": "true"}}, ActionInput, true},
		{"input on button",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.widget.Button"}, ActionInput, false},

		{"scroll via container class",
			&core.Element{Displayed: true, Enabled: true, Tag: "androidx.recyclerview.widget.RecyclerView"}, ActionScroll, true},
		{"scroll via scrollable attr",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.view.ViewGroup",
				Attributes: map[string]string{"scrollable": "true"}}, ActionScroll, true},
		{"scroll on text view",
			&core.Element{Displayed: true, Enabled: true, Tag: "android.widget.TextView"}, ActionScroll, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Actionable(tt.el, tt.action); got != tt.want {
				t.Errorf("Actionable() = %v, want %v", got, tt.want)
			}
		})
	}
}
