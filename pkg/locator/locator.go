// Package locator models element locators and expands fallback candidates.
//
// A locator request may carry several alternatives in a single value,
// separated by "|" (e.g. spreadsheet columns merged into one cell).
// Candidates are always tried in declaration order.
package locator

import "strings"

// Type identifies the locator strategy.
type Type string

// Supported locator types.
const (
	TypeID              Type = "id"               // resource-id / element id
	TypeAccessibilityID Type = "accessibility_id" // accessibility label / content-desc
	TypeXPath           Type = "xpath"            // structural path
	TypeClass           Type = "class"            // widget class name
	TypeName            Type = "name"             // name attribute
	TypePredicate       Type = "predicate"        // attribute predicate (iOS)
	TypeImage           Type = "image"            // reference image
	TypeCSS             Type = "css"              // css selector (webview surfaces)
)

// Valid reports whether t is one of the supported locator types.
func (t Type) Valid() bool {
	switch t {
	case TypeID, TypeAccessibilityID, TypeXPath, TypeClass, TypeName,
		TypePredicate, TypeImage, TypeCSS:
		return true
	}
	return false
}

// Locator is a single element selection criterion.
type Locator struct {
	Type  Type
	Value string
}

// Key returns the cache key for this locator ("type:value").
func (l Locator) Key() string {
	return string(l.Type) + ":" + l.Value
}

// String returns a human-readable form like id="login_btn".
func (l Locator) String() string {
	return string(l.Type) + "=\"" + l.Value + "\""
}

// delimiter separates alternate locator values within one request.
const delimiter = "|"

// Expand splits a raw locator value into an ordered candidate list.
// Entries are trimmed; empty and null-like entries ("nan", "none", "null",
// artifacts of spreadsheet exports) are discarded. Order is preserved.
// The result is empty only when raw contains no usable value.
func Expand(t Type, raw string) []Locator {
	var out []Locator
	for _, part := range strings.Split(raw, delimiter) {
		part = strings.TrimSpace(part)
		if nullLike(part) {
			continue
		}
		out = append(out, Locator{Type: t, Value: part})
	}
	return out
}

// nullLike reports whether s carries no usable locator value.
func nullLike(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}
