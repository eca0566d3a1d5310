// Package healing synthesizes, validates and caches alternative locators for
// elements whose original locators have drifted.
package healing

import "github.com/testzen-dev/testzen-runner/pkg/locator"

// Strategy is one synthesized alternative locator. Immutable once produced.
type Strategy struct {
	// Name identifies the heuristic that produced the strategy.
	Name string `json:"name"`

	// Confidence in [0, 1]; strategies are tried confidence-descending,
	// ties broken by heuristic registration order.
	Confidence float64 `json:"confidence"`

	// Locator is the synthesized alternative.
	Locator locator.Locator `json:"locator"`

	// Reasoning is a human-readable explanation for reports and logs.
	Reasoning string `json:"reasoning"`
}

// Strategy names, one per heuristic.
const (
	StrategyPartialID    = "Partial ID Match"
	StrategyTextSearch   = "Text Search"
	StrategyFlexiblePath = "Flexible XPath"
	StrategyCSSSelector  = "CSS Selector"
	StrategyLearned      = "Learned Prediction"
)
