// Package learning records per-element resolution outcomes and estimates the
// success probability of element signatures. The scoring model is a token
// success-frequency table retrained every batch of accumulated records;
// predictions are monotonic with the observed success rate and default to a
// neutral 0.5 when no model has been trained yet.
package learning

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// NeutralProbability is returned whenever no trained model can score a
// signature: untrained store, malformed signature, or unseen features.
const NeutralProbability = 0.5

// DefaultBatchSize is the number of accumulated records between retrains.
const DefaultBatchSize = 100

// Signature is the identity of an element captured at the moment it was
// found. It feeds both healing validation and the learning features.
type Signature struct {
	LocatorType  locator.Type
	LocatorValue string
	Attributes   map[string]string
	Text         string
	Tag          string
	SiblingCount int
	Position     int
}

// SignatureFor captures a signature from a locator and a live element.
// The element may be nil (failure outcomes have no live element).
func SignatureFor(loc locator.Locator, el *core.Element) Signature {
	sig := Signature{
		LocatorType:  loc.Type,
		LocatorValue: loc.Value,
	}
	if el != nil {
		sig.Text = el.Text
		sig.Tag = el.Tag
		sig.SiblingCount = el.SiblingCount
		sig.Position = el.Position
		if len(el.Attributes) > 0 {
			sig.Attributes = make(map[string]string, len(el.Attributes))
			for k, v := range el.Attributes {
				sig.Attributes[k] = v
			}
		}
	}
	return sig
}

// Record is one observed outcome for an element identity.
type Record struct {
	Signature Signature
	Features  []string
	Success   bool
	Timestamp time.Time
}

// Store accumulates outcome history and owns the confidence model.
//
// The store is mutated only by the engine; the engine's single-threaded
// scheduling model is the synchronization contract, so there is no locking
// here. A multi-session design would need to revisit that.
type Store struct {
	batchSize int
	history   map[string][]Record
	order     []string // element ids in first-seen order
	total     int
	model     *freqModel
	db        *persistentDB // nil when not persisting
}

// NewStore creates an in-memory store retraining every batchSize records.
// batchSize <= 0 selects DefaultBatchSize.
func NewStore(batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		batchSize: batchSize,
		history:   make(map[string][]Record),
	}
}

// RecordOutcome appends an outcome to the element's history and retrains the
// model when the accumulated record count crosses a batch boundary.
func (s *Store) RecordOutcome(elementID string, sig Signature, success bool) {
	feats, err := extractFeatures(sig)
	if err != nil {
		// Malformed signatures still count as outcomes, they just carry no
		// features for the model.
		feats = nil
	}

	if _, ok := s.history[elementID]; !ok {
		s.order = append(s.order, elementID)
	}
	rec := Record{Signature: sig, Features: feats, Success: success, Timestamp: time.Now()}
	s.history[elementID] = append(s.history[elementID], rec)
	s.total++

	if s.db != nil {
		s.db.append(elementID, rec)
	}

	if s.total%s.batchSize == 0 {
		s.retrain()
	}
}

// PredictSuccessProbability estimates how likely a signature is to resolve
// successfully. It returns exactly NeutralProbability on an untrained store
// and never fails: malformed signatures degrade to the neutral default.
func (s *Store) PredictSuccessProbability(sig Signature) float64 {
	if s.model == nil {
		return NeutralProbability
	}
	feats, err := extractFeatures(sig)
	if err != nil {
		return NeutralProbability
	}
	return s.model.predict(feats)
}

// BestMatch scores each sampled element by similarity between the target
// locator value and the element's identifier/class/text content, returning
// the best-scoring element. Used by the learned-prediction healing heuristic.
func (s *Store) BestMatch(targetValue string, sample []*core.Element) (*core.Element, float64) {
	var best *core.Element
	bestScore := 0.0
	for _, el := range sample {
		if el == nil {
			continue
		}
		content := strings.TrimSpace(el.Identifier() + " " + el.Attribute("class") + " " + el.Text)
		score := Similarity(targetValue, content)
		if score > bestScore {
			bestScore = score
			best = el
		}
	}
	return best, bestScore
}

// TotalRecords returns the number of accumulated outcome records.
func (s *Store) TotalRecords() int {
	return s.total
}

// Trained reports whether a confidence model has been trained.
func (s *Store) Trained() bool {
	return s.model != nil
}

// retrain rebuilds the frequency model from the full history.
func (s *Store) retrain() {
	m := newFreqModel()
	for _, id := range s.order {
		for _, rec := range s.history[id] {
			m.observe(rec.Features, rec.Success)
		}
	}
	if m.observations > 0 {
		s.model = m
	}
}

// errMalformedSignature is internal: callers convert it to the neutral
// prediction default, it never propagates.
var errMalformedSignature = errors.New("malformed signature")

// extractFeatures derives the feature tokens of a signature: content tokens
// from locator value, text, tag and attribute values, plus bucketed shape
// features (value length, sibling count, position, attribute count).
func extractFeatures(sig Signature) ([]string, error) {
	if sig.LocatorValue == "" && sig.Text == "" && sig.Tag == "" && len(sig.Attributes) == 0 {
		return nil, errMalformedSignature
	}

	var feats []string
	feats = append(feats, tokenize(sig.LocatorValue)...)
	feats = append(feats, tokenize(sig.Text)...)
	feats = append(feats, tokenize(sig.Tag)...)
	for _, v := range sig.Attributes {
		feats = append(feats, tokenize(v)...)
	}

	feats = append(feats,
		fmt.Sprintf("vlen:%d", len(sig.LocatorValue)/8),
		fmt.Sprintf("sib:%d", sig.SiblingCount/4),
		fmt.Sprintf("pos:%d", sig.Position/4),
		fmt.Sprintf("attrs:%d", len(sig.Attributes)),
	)
	return feats, nil
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

// freqModel is a token success-frequency table. Prediction averages the
// per-token success rates of the known tokens in a signature, which keeps
// scores monotonic with observed success: tokens seen mostly in successes
// pull the estimate up, tokens seen mostly in failures pull it down.
type freqModel struct {
	success      map[string]int
	totalByTok   map[string]int
	observations int
}

func newFreqModel() *freqModel {
	return &freqModel{
		success:    make(map[string]int),
		totalByTok: make(map[string]int),
	}
}

func (m *freqModel) observe(feats []string, success bool) {
	for _, f := range feats {
		m.totalByTok[f]++
		if success {
			m.success[f]++
		}
	}
	if len(feats) > 0 {
		m.observations++
	}
}

func (m *freqModel) predict(feats []string) float64 {
	sum := 0.0
	known := 0
	for _, f := range feats {
		total := m.totalByTok[f]
		if total == 0 {
			continue
		}
		sum += float64(m.success[f]) / float64(total)
		known++
	}
	if known == 0 {
		return NeutralProbability
	}
	return sum / float64(known)
}
