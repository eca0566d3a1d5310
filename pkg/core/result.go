package core

import (
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// Resolution is the successful outcome of a resolution request. Any returned
// element has passed either a direct actionable match or healing validation;
// partially-validated elements are never returned.
type Resolution struct {
	// Element is the live element reference.
	Element *Element `json:"element"`

	// Locator is the candidate (or healed) locator that matched.
	Locator locator.Locator `json:"-"`

	// Surface is the rendering surface the element was found on.
	Surface string `json:"surfaceUsed,omitempty"`

	// StrategyUsed names the healing strategy that produced the element.
	// Empty when the element resolved without healing.
	StrategyUsed string `json:"strategyUsed,omitempty"`

	// AttemptsMade counts every candidate/strategy try across all stages.
	AttemptsMade int `json:"attemptsMade"`
}

// Healed reports whether the resolution went through healing.
func (r *Resolution) Healed() bool {
	return r.StrategyUsed != ""
}

// Attempt records one driver try at one stage. A failed request carries its
// tries on ResolutionFailure.Trace for diagnostics.
type Attempt struct {
	Locator locator.Locator
	Surface string
	Stage   Stage
	Found   bool
	Elapsed time.Duration
}
