package resolver

import (
	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
	"github.com/testzen-dev/testzen-runner/pkg/logger"
)

// surfaceSearch retries the candidates on every other rendering surface the
// app exposes (webviews, alternate native contexts). On success the driver
// stays on the surface that worked, so the follow-up interaction happens
// there. On total failure the originating surface is restored.
//
// With a single surface this is a no-op. Surface enumeration and switch
// failures are stage-local: they skip the stage (or the surface) so healing
// still gets its chance, but every swallowed error is logged.
func (e *Engine) surfaceSearch(candidates []locator.Locator, action Action, trace *attemptLog) (*core.Element, locator.Locator, string, bool, error) {
	surfaces, err := e.driver.ListSurfaces()
	if err != nil {
		logger.Warn("surface enumeration failed, skipping surface search: %v", err)
		return nil, locator.Locator{}, "", false, nil
	}
	if len(surfaces) <= 1 {
		return nil, locator.Locator{}, "", false, nil
	}
	original, err := e.driver.CurrentSurface()
	if err != nil {
		logger.Warn("current surface unknown, skipping surface search: %v", err)
		return nil, locator.Locator{}, "", false, nil
	}

	for _, surface := range surfaces {
		if surface == original {
			continue
		}
		if err := e.driver.SwitchSurface(surface); err != nil {
			logger.Warn("switch to surface %s failed, skipping it: %v", surface, err)
			continue
		}
		trace.surface = surface
		for _, cand := range candidates {
			el, err := e.queryActionable(cand, action, trace)
			if err != nil {
				// Leave the driver in a known state before propagating.
				trace.surface = ""
				e.restoreSurface(original)
				return nil, locator.Locator{}, "", true, err
			}
			if el != nil {
				return el, cand, surface, true, nil
			}
		}
		trace.surface = ""
	}

	e.restoreSurface(original)
	return nil, locator.Locator{}, "", true, nil
}

// restoreSurface best-effort switches back; a failed restore cannot be
// recovered from here and the next stage proceeds regardless.
func (e *Engine) restoreSurface(original string) {
	if err := e.driver.SwitchSurface(original); err != nil {
		logger.Warn("could not restore surface %s: %v", original, err)
	}
}
