package healing

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/learning"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// Heuristic confidences. Fixed values keep the ranking deterministic; only
// the learned prediction carries a computed score.
const (
	partialIDConfidence  = 0.7
	textSearchConfidence = 0.6
	relaxedConfidence    = 0.5
	cssConfidence        = 0.65
)

// DefaultPredictionFloor is the minimum similarity score the learned
// prediction heuristic accepts.
const DefaultPredictionFloor = 0.6

// DefaultSampleLimit bounds how many live elements the learned prediction
// heuristic examines.
const DefaultSampleLimit = 50

// Generators is the fixed, ordered set of healing heuristics. Each heuristic
// is side-effect-free and examines only the failed locator, except the
// learned prediction which samples live elements through the driver.
type Generators struct {
	driver          core.AutomationDriver
	store           *learning.Store
	sampleLimit     int
	predictionFloor float64
}

// NewGenerators creates the heuristic set. sampleLimit <= 0 and
// predictionFloor <= 0 select the defaults.
func NewGenerators(driver core.AutomationDriver, store *learning.Store, sampleLimit int, predictionFloor float64) *Generators {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	if predictionFloor <= 0 {
		predictionFloor = DefaultPredictionFloor
	}
	return &Generators{
		driver:          driver,
		store:           store,
		sampleLimit:     sampleLimit,
		predictionFloor: predictionFloor,
	}
}

// Generate synthesizes strategies for the failed locator, sorted by
// confidence descending. The sort is stable, so equal confidences keep the
// heuristic registration order.
func (g *Generators) Generate(loc locator.Locator) []Strategy {
	heuristics := []func(locator.Locator) *Strategy{
		g.partialIdentifier,
		g.textDerivation,
		g.structuralRelaxation,
		g.selectorConversion,
		g.learnedPrediction,
		g.visualRecognition,
	}

	var out []Strategy
	for _, h := range heuristics {
		if s := h(loc); s != nil {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// identifier-ish locator types the text and selector heuristics apply to.
func identifierLike(t locator.Type) bool {
	return t == locator.TypeID || t == locator.TypeName || t == locator.TypeClass
}

// partialIdentifier targets dynamic-suffix identifiers: when the value
// contains separator characters, the trailing segment is assumed generated
// and a structural path matching the stable prefix is emitted.
func (g *Generators) partialIdentifier(loc locator.Locator) *Strategy {
	if loc.Type != locator.TypeID || !strings.ContainsAny(loc.Value, "_-:") {
		return nil
	}
	idx := strings.LastIndexAny(loc.Value, "_-:")
	stable := loc.Value[:idx]
	if stable == "" {
		return nil
	}
	return &Strategy{
		Name:       StrategyPartialID,
		Confidence: partialIDConfidence,
		Locator: locator.Locator{
			Type:  locator.TypeXPath,
			Value: fmt.Sprintf("//*[starts-with(@resource-id, '%s')]", stable),
		},
		Reasoning: "dynamic id suffix detected, matching stable prefix " + stable,
	}
}

// textDerivation converts an identifier-like value into human-readable words
// and matches elements whose visible text or value contains that phrase.
func (g *Generators) textDerivation(loc locator.Locator) *Strategy {
	if !identifierLike(loc.Type) {
		return nil
	}
	phrase := titleWords(loc.Value)
	if phrase == "" {
		return nil
	}
	return &Strategy{
		Name:       StrategyTextSearch,
		Confidence: textSearchConfidence,
		Locator: locator.Locator{
			Type:  locator.TypeXPath,
			Value: fmt.Sprintf("//*[contains(@text, '%s') or contains(@value, '%s')]", phrase, phrase),
		},
		Reasoning: "searching by derived text content " + phrase,
	}
}

var indexConstraint = regexp.MustCompile(`\[\d+\]`)

// structuralRelaxation relaxes a structural path by dropping positional
// index constraints, which commonly shift when siblings are added.
func (g *Generators) structuralRelaxation(loc locator.Locator) *Strategy {
	if loc.Type != locator.TypeXPath || !strings.HasPrefix(loc.Value, "//") {
		return nil
	}
	relaxed := indexConstraint.ReplaceAllString(loc.Value, "")
	if relaxed == loc.Value {
		return nil
	}
	return &Strategy{
		Name:       StrategyFlexiblePath,
		Confidence: relaxedConfidence,
		Locator:    locator.Locator{Type: locator.TypeXPath, Value: relaxed},
		Reasoning:  "removed positional index constraints",
	}
}

// selectorConversion rewrites identifier/class/name locators in the
// alternate selector syntax used on webview surfaces.
func (g *Generators) selectorConversion(loc locator.Locator) *Strategy {
	var css string
	switch loc.Type {
	case locator.TypeID:
		css = "#" + loc.Value
	case locator.TypeClass:
		css = "." + strings.ReplaceAll(loc.Value, " ", ".")
	case locator.TypeName:
		css = fmt.Sprintf("[name='%s']", loc.Value)
	default:
		return nil
	}
	return &Strategy{
		Name:       StrategyCSSSelector,
		Confidence: cssConfidence,
		Locator:    locator.Locator{Type: locator.TypeCSS, Value: css},
		Reasoning:  "converted to css selector syntax",
	}
}

// learnedPrediction samples live elements and asks the learning store for
// the best match to the failed value. A strategy is emitted only when the
// best score clears the acceptance floor; its confidence is the score.
func (g *Generators) learnedPrediction(loc locator.Locator) *Strategy {
	sampleLoc := locator.Locator{Type: locator.TypeXPath, Value: "//*[@resource-id]"}
	if loc.Type == locator.TypeClass {
		sampleLoc.Value = "//*[@class]"
	}

	sample, err := g.driver.QueryAll(sampleLoc, g.sampleLimit)
	if err != nil || len(sample) == 0 {
		// Transport failures here just mean no learned strategy; the other
		// heuristics are unaffected.
		return nil
	}

	best, score := g.store.BestMatch(loc.Value, sample)
	if best == nil || score <= g.predictionFloor {
		return nil
	}
	id := best.Identifier()
	if id == "" {
		return nil
	}
	return &Strategy{
		Name:       StrategyLearned,
		Confidence: score,
		Locator:    locator.Locator{Type: locator.TypeID, Value: id},
		Reasoning:  fmt.Sprintf("best live match with score %.2f", score),
	}
}

// visualRecognition is a reserved extension point for image-based matching.
// Not yet implemented: it deliberately emits no strategy rather than being
// silently absent from the heuristic set.
func (g *Generators) visualRecognition(locator.Locator) *Strategy {
	return nil
}

// titleWords turns an identifier like "login_btn" into "Login Btn".
func titleWords(value string) string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, f := range fields {
		r := []rune(strings.ToLower(f))
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
