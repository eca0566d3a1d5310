package resolver

import (
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// attemptLog collects one core.Attempt per driver try during a single
// request. The pipeline sets the active stage (and, during surface search,
// the surface) before the tries they apply to.
type attemptLog struct {
	stage   core.Stage
	surface string
	records []core.Attempt
}

func (l *attemptLog) enter(stage core.Stage) {
	l.stage = stage
}

func (l *attemptLog) record(loc locator.Locator, found bool, elapsed time.Duration) {
	l.records = append(l.records, core.Attempt{
		Locator: loc,
		Surface: l.surface,
		Stage:   l.stage,
		Found:   found,
		Elapsed: elapsed,
	})
}

func (l *attemptLog) count() int {
	return len(l.records)
}
