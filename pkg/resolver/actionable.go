package resolver

import "github.com/testzen-dev/testzen-runner/pkg/core"

// Action is the interaction the caller intends to perform on the resolved
// element. It tightens the actionability check: a tap target must actually
// be tappable, an input target must accept text.
type Action string

// Supported actions. ActionNone requires only a displayed, enabled element.
const (
	ActionNone   Action = ""
	ActionTap    Action = "tap"
	ActionInput  Action = "input"
	ActionScroll Action = "scroll"
)

// Widget class fragments recognized per action.
var (
	tapClasses    = []string{"button", "link", "checkbox", "switch", "radio"}
	inputClasses  = []string{"edittext", "textfield", "textarea", "input", "searchbar"}
	scrollClasses = []string{"scrollview", "recyclerview", "listview", "collectionview", "table", "grid"}
)

// Actionable reports whether the element can receive the intended action
// right now. Every action requires the element to be displayed and enabled;
// tap additionally needs the clickable attribute or an interactive widget
// class, input a focusable text-input class, scroll a scroll-container class.
func Actionable(el *core.Element, action Action) bool {
	if el == nil || !el.Displayed || !el.Enabled {
		return false
	}
	switch action {
	case ActionTap:
		return el.Clickable() || tagMatchesAny(el, tapClasses)
	case ActionInput:
		return el.Focusable() || tagMatchesAny(el, inputClasses)
	case ActionScroll:
		return el.Attribute("scrollable") == "true" || tagMatchesAny(el, scrollClasses)
	}
	return true
}

func tagMatchesAny(el *core.Element, fragments []string) bool {
	for _, f := range fragments {
		if el.TagContains(f) {
			return true
		}
	}
	return false
}
