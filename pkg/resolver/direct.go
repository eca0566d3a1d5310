package resolver

import (
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// queryActionable performs one driver query and applies the actionability
// rules. Absence and non-actionable matches both come back as nil; only
// transport failures are errors. Every try is recorded in the trace.
func (e *Engine) queryActionable(loc locator.Locator, action Action, trace *attemptLog) (*core.Element, error) {
	start := time.Now()
	el, err := e.driver.Query(loc)
	if err != nil {
		trace.record(loc, false, time.Since(start))
		return nil, core.NewDriverError("query", err)
	}
	usable := el != nil && Actionable(el, action)
	trace.record(loc, usable, time.Since(start))
	if !usable {
		return nil, nil
	}
	return el, nil
}

// directFind polls each candidate in declaration order until one yields an
// actionable element or its per-candidate budget runs out. Every candidate
// is queried at least once even when the budget is already spent.
func (e *Engine) directFind(candidates []locator.Locator, action Action, budget time.Duration, trace *attemptLog) (*core.Element, locator.Locator, error) {
	for _, cand := range candidates {
		deadline := time.Now().Add(budget)
		for {
			el, err := e.queryActionable(cand, action, trace)
			if err != nil {
				return nil, locator.Locator{}, err
			}
			if el != nil {
				return el, cand, nil
			}
			if !time.Now().Before(deadline) {
				break
			}
			e.sleep(e.opts.PollInterval)
		}
	}
	return nil, locator.Locator{}, nil
}
