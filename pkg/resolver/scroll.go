package resolver

import (
	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// scrollSearch swipes down and re-checks the candidates after each gesture.
// It performs at most MaxScrolls gestures; when the element never appears,
// exactly MaxScrolls are performed before giving up. Each round queries every
// candidate once, so the per-round cost stays bounded.
func (e *Engine) scrollSearch(candidates []locator.Locator, action Action, trace *attemptLog) (*core.Element, locator.Locator, error) {
	for i := 0; i < e.opts.MaxScrolls; i++ {
		if err := e.driver.PerformGesture(core.ScrollDown()); err != nil {
			return nil, locator.Locator{}, core.NewDriverError("gesture", err)
		}
		e.sleep(e.opts.ScrollSettle)

		for _, cand := range candidates {
			el, err := e.queryActionable(cand, action, trace)
			if err != nil {
				return nil, locator.Locator{}, err
			}
			if el != nil {
				return el, cand, nil
			}
		}
	}
	return nil, locator.Locator{}, nil
}
