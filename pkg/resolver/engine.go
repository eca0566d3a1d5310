// Package resolver runs the element resolution pipeline: direct lookup,
// scroll search, surface switching, and healing with a per-session cache.
// Each request walks a strictly forward state machine; no stage is revisited
// within one request.
package resolver

import (
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/healing"
	"github.com/testzen-dev/testzen-runner/pkg/learning"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
	"github.com/testzen-dev/testzen-runner/pkg/logger"
)

// Default stage tunables.
const (
	DefaultFindTimeout      = 10 * time.Second
	DefaultCandidateTimeout = 3 * time.Second
	DefaultPollInterval     = 1 * time.Second
	DefaultMaxScrolls       = 5
	DefaultScrollSettle     = 500 * time.Millisecond
)

// Options tunes the resolution pipeline. The zero value of any field selects
// its default.
type Options struct {
	// FindTimeout is the request budget used when Resolve gets no explicit
	// timeout.
	FindTimeout time.Duration

	// CandidateTimeout bounds how long the direct stage polls one candidate.
	CandidateTimeout time.Duration

	// PollInterval is the pause between direct-stage queries.
	PollInterval time.Duration

	// MaxScrolls caps scroll-search gestures per request.
	MaxScrolls int

	// ScrollSettle is the pause after each scroll gesture before re-querying.
	ScrollSettle time.Duration

	// ValidatorFloor is the similarity a healed candidate must strictly
	// exceed.
	ValidatorFloor float64

	// StrictValidation disables the permissive fallback that accepts any
	// displayed and enabled healed candidate when all similarity checks fail.
	StrictValidation bool

	// PredictionFloor and SampleLimit tune the learned-prediction heuristic.
	PredictionFloor float64
	SampleLimit     int
}

func (o *Options) fillDefaults() {
	if o.FindTimeout <= 0 {
		o.FindTimeout = DefaultFindTimeout
	}
	if o.CandidateTimeout <= 0 {
		o.CandidateTimeout = DefaultCandidateTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxScrolls <= 0 {
		o.MaxScrolls = DefaultMaxScrolls
	}
	if o.ScrollSettle <= 0 {
		o.ScrollSettle = DefaultScrollSettle
	}
}

// Engine owns all resolution state for one automation session: the healing
// cache, the heuristic set and the learning store. It is driven from a single
// goroutine; concurrent Resolve calls are not supported.
type Engine struct {
	driver     core.AutomationDriver
	opts       Options
	cache      *healing.Cache
	generators *healing.Generators
	validator  healing.Validator
	store      *learning.Store

	sleep func(time.Duration) // swapped out in tests
}

// New creates an engine on top of the driver. A nil store gets a fresh
// in-memory learning store.
func New(driver core.AutomationDriver, opts Options, store *learning.Store) *Engine {
	opts.fillDefaults()
	if store == nil {
		store = learning.NewStore(0)
	}
	return &Engine{
		driver:     driver,
		opts:       opts,
		cache:      healing.NewCache(),
		generators: healing.NewGenerators(driver, store, opts.SampleLimit, opts.PredictionFloor),
		validator:  healing.NewValidator(opts.ValidatorFloor, !opts.StrictValidation),
		store:      store,
		sleep:      time.Sleep,
	}
}

// Store exposes the learning store, mainly for persistence wiring.
func (e *Engine) Store() *learning.Store {
	return e.store
}

// HealingReport summarizes the session's healing activity so far.
func (e *Engine) HealingReport() *healing.Report {
	return healing.BuildReport(e.cache)
}

// Resolve turns a raw locator value (possibly pipe-delimited alternatives)
// into a live, actionable element. Stages run strictly in order: direct
// lookup, scroll search, surface switch, cached healing, fresh healing.
// timeout <= 0 selects Options.FindTimeout.
//
// The terminal failure is a *core.ResolutionFailure; transport failures
// surface as *core.DriverError.
func (e *Engine) Resolve(t locator.Type, raw, description string, action Action, timeout time.Duration) (*core.Resolution, error) {
	candidates := locator.Expand(t, raw)
	if len(candidates) == 0 {
		return nil, &core.ResolutionFailure{
			Locator:     locator.Locator{Type: t, Value: raw},
			Description: description,
		}
	}
	primary := candidates[0]

	if timeout <= 0 {
		timeout = e.opts.FindTimeout
	}
	budget := e.opts.CandidateTimeout
	if timeout < budget {
		budget = timeout
	}

	trace := &attemptLog{}
	var stages []core.Stage

	stages = append(stages, core.StageDirect)
	trace.enter(core.StageDirect)
	el, loc, err := e.directFind(candidates, action, budget, trace)
	if err != nil {
		return nil, err
	}
	if el != nil {
		return e.resolved(el, loc, "", "", trace.count()), nil
	}

	stages = append(stages, core.StageScroll)
	trace.enter(core.StageScroll)
	el, loc, err = e.scrollSearch(candidates, action, trace)
	if err != nil {
		return nil, err
	}
	if el != nil {
		return e.resolved(el, loc, "", "", trace.count()), nil
	}

	trace.enter(core.StageSurfaceSwitch)
	el, loc, surface, tried, err := e.surfaceSearch(candidates, action, trace)
	if tried {
		stages = append(stages, core.StageSurfaceSwitch)
	}
	if err != nil {
		return nil, err
	}
	if el != nil {
		return e.resolved(el, loc, surface, "", trace.count()), nil
	}

	logger.Info("element not found directly, healing %s (%s)", primary, description)

	stages = append(stages, core.StageCacheLookup)
	trace.enter(core.StageCacheLookup)
	key := primary.Key()
	if cached, ok := e.cache.Lookup(key); ok {
		el, err := e.tryStrategy(cached, primary, action, trace)
		if err != nil {
			return nil, err
		}
		if el != nil {
			logger.Info("healed %s from cache via %s", primary, cached.Name)
			return e.resolvedHealed(el, cached, key, trace.count()), nil
		}
		// A stale cache entry stays; a later success overwrites it.
	}

	stages = append(stages, core.StageHealGenerate)
	strategies := e.generators.Generate(primary)

	if len(strategies) > 0 {
		stages = append(stages, core.StageHealValidate)
		trace.enter(core.StageHealValidate)
		for _, s := range strategies {
			el, err := e.tryStrategy(s, primary, action, trace)
			if err != nil {
				return nil, err
			}
			if el != nil {
				logger.Info("healed %s via %s -> %s", primary, s.Name, s.Locator)
				return e.resolvedHealed(el, s, key, trace.count()), nil
			}
		}
	}

	e.store.RecordOutcome(key, learning.SignatureFor(primary, nil), false)
	logger.Warn("resolution failed for %s (%s) after %d attempts", primary, description, trace.count())
	return nil, &core.ResolutionFailure{
		Locator:     primary,
		Description: description,
		Stages:      stages,
		Attempts:    trace.count(),
		Trace:       trace.records,
	}
}

// tryStrategy queries a healed locator once and validates the result against
// the original value plus the intended action.
func (e *Engine) tryStrategy(s healing.Strategy, original locator.Locator, action Action, trace *attemptLog) (*core.Element, error) {
	start := time.Now()
	el, err := e.driver.Query(s.Locator)
	if err != nil {
		trace.record(s.Locator, false, time.Since(start))
		return nil, core.NewDriverError("query", err)
	}
	ok := el != nil && e.validator.Validate(el, original.Value) && Actionable(el, action)
	trace.record(s.Locator, ok, time.Since(start))
	if !ok {
		return nil, nil
	}
	return el, nil
}

// resolved assembles a success for a direct/scroll/surface match and records
// the learning outcome.
func (e *Engine) resolved(el *core.Element, loc locator.Locator, surface, strategy string, attempts int) *core.Resolution {
	if surface == "" {
		surface, _ = e.driver.CurrentSurface()
	}
	e.store.RecordOutcome(el.Identifier(), learning.SignatureFor(loc, el), true)
	return &core.Resolution{
		Element:      el,
		Locator:      loc,
		Surface:      surface,
		StrategyUsed: strategy,
		AttemptsMade: attempts,
	}
}

// resolvedHealed assembles a healed success: the winning strategy goes to the
// cache under the original locator key.
func (e *Engine) resolvedHealed(el *core.Element, s healing.Strategy, key string, attempts int) *core.Resolution {
	e.cache.Store(key, s)
	return e.resolved(el, s.Locator, "", s.Name, attempts)
}
