package healing

import (
	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/learning"
)

// DefaultAcceptFloor is the similarity a healed candidate must strictly
// exceed against the original locator value.
const DefaultAcceptFloor = 0.5

// descriptiveAttrs are compared against the original value when the visible
// text check fails.
var descriptiveAttrs = []string{"resource-id", "id", "name", "class", "placeholder"}

// Validator accepts or rejects healed candidates.
//
// Permissive keeps the historical behavior of accepting any displayed and
// enabled element whose similarity checks all fail. That trades precision
// for recall; deployments that prefer rejecting uncertain matches can turn
// it off.
type Validator struct {
	Floor      float64
	Permissive bool
}

// NewValidator returns a validator with the given floor (<= 0 selects the
// default) and permissive mode.
func NewValidator(floor float64, permissive bool) Validator {
	if floor <= 0 {
		floor = DefaultAcceptFloor
	}
	return Validator{Floor: floor, Permissive: permissive}
}

// Validate decides whether a healed candidate may stand in for the original
// locator. Rules, in order: the element must be displayed and enabled;
// accept when the visible text (or value attribute) similarity strictly
// exceeds the floor; else accept when any descriptive attribute's similarity
// strictly exceeds the floor; else accept only in permissive mode.
func (v Validator) Validate(el *core.Element, originalValue string) bool {
	if el == nil || !el.Displayed || !el.Enabled {
		return false
	}

	text := el.Text
	if text == "" {
		text = el.Attribute("value")
	}
	if learning.Similarity(originalValue, text) > v.Floor {
		return true
	}

	for _, attr := range descriptiveAttrs {
		if val := el.Attribute(attr); val != "" && learning.Similarity(originalValue, val) > v.Floor {
			return true
		}
	}

	return v.Permissive
}
