// Package core defines the automation driver contract and the shared types
// of the resolution engine: element snapshots, resolution results, error
// taxonomy and stage identifiers.
package core

import (
	"strings"

	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// AutomationDriver is the primitive query/gesture surface the engine runs on.
// Implementations: Appium adapter, mock.
//
// Absence is a value, not an error: Query returns (nil, nil) when no element
// matches. Errors are reserved for transport failures and are always
// *DriverError values.
type AutomationDriver interface {
	// Query finds the first element matching the locator and returns a
	// snapshot of its state at query time.
	Query(loc locator.Locator) (*Element, error)

	// QueryAll finds up to limit matching elements (limit <= 0 means no cap).
	QueryAll(loc locator.Locator, limit int) ([]*Element, error)

	// PerformGesture executes a device gesture.
	PerformGesture(g Gesture) error

	// ListSurfaces returns the identifiers of all rendering surfaces
	// currently exposed by the app (native widget tree, webviews).
	ListSurfaces() ([]string, error)

	// CurrentSurface returns the identifier of the active surface.
	CurrentSurface() (string, error)

	// SwitchSurface makes the given surface active.
	SwitchSurface(id string) error
}

// GestureKind identifies a device gesture.
type GestureKind string

// Gesture kinds.
const (
	GestureScroll    GestureKind = "scroll"
	GestureTap       GestureKind = "tap"
	GestureLongPress GestureKind = "longPress"
)

// Gesture describes a device gesture to perform.
type Gesture struct {
	Kind       GestureKind
	Direction  string // scroll: down, up
	X, Y       int    // tap/longPress coordinates
	DurationMs int
}

// ScrollDown returns the scroll gesture used by the scroll searcher.
func ScrollDown() Gesture {
	return Gesture{Kind: GestureScroll, Direction: "down", DurationMs: 300}
}

// Element is a live element reference plus the state captured when it was
// found. The ID is the driver-assigned handle; everything else is a snapshot
// and may go stale if the UI changes.
type Element struct {
	ID           string            `json:"id"`
	Tag          string            `json:"tag,omitempty"` // class name or role
	Text         string            `json:"text,omitempty"`
	Displayed    bool              `json:"displayed"`
	Enabled      bool              `json:"enabled"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Bounds       Bounds            `json:"bounds"`
	SiblingCount int               `json:"siblingCount,omitempty"`
	Position     int               `json:"position,omitempty"` // index among siblings
}

// Attribute returns the named attribute, or "" when absent.
func (e *Element) Attribute(name string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// Clickable reports whether the element declares itself clickable.
func (e *Element) Clickable() bool {
	return e.Attribute("clickable") == "true"
}

// Focusable reports whether the element declares itself focusable.
func (e *Element) Focusable() bool {
	return e.Attribute("focusable") == "true"
}

// Identifier returns the most specific identifier available for the element:
// resource-id attribute first, then the driver handle.
func (e *Element) Identifier() string {
	if id := e.Attribute("resource-id"); id != "" {
		return id
	}
	if id := e.Attribute("id"); id != "" {
		return id
	}
	return e.ID
}

// TagContains reports whether the element's tag contains the fragment,
// case-insensitively. Used by the actionability rules.
func (e *Element) TagContains(fragment string) bool {
	return strings.Contains(strings.ToLower(e.Tag), strings.ToLower(fragment))
}

// Bounds represents element position and size.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}
