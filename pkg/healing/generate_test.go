package healing

import (
	"strings"
	"testing"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/driver/mock"
	"github.com/testzen-dev/testzen-runner/pkg/learning"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

func newGenerators(d core.AutomationDriver) *Generators {
	return NewGenerators(d, learning.NewStore(0), 0, 0)
}

func TestGenerate_DynamicIDRankedByConfidence(t *testing.T) {
	g := newGenerators(mock.New())

	strategies := g.Generate(locator.Locator{Type: locator.TypeID, Value: "login_btn_9f3a"})

	// Partial ID (0.7), CSS (0.65) and Text Search (0.6) all apply.
	wantOrder := []string{StrategyPartialID, StrategyCSSSelector, StrategyTextSearch}
	if len(strategies) != len(wantOrder) {
		t.Fatalf("got %d strategies, want %d: %+v", len(strategies), len(wantOrder), strategies)
	}
	for i, want := range wantOrder {
		if strategies[i].Name != want {
			t.Errorf("strategy %d is %q, want %q", i, strategies[i].Name, want)
		}
	}
	for i := 1; i < len(strategies); i++ {
		if strategies[i].Confidence > strategies[i-1].Confidence {
			t.Errorf("strategies not sorted by confidence: %v", strategies)
		}
	}
}

func TestPartialIdentifier_StablePrefix(t *testing.T) {
	g := newGenerators(mock.New())

	s := g.partialIdentifier(locator.Locator{Type: locator.TypeID, Value: "login_btn_9f3a"})
	if s == nil {
		t.Fatal("expected a strategy for a dynamic-suffix id")
	}
	if s.Confidence != 0.7 {
		t.Errorf("got confidence %v, want 0.7", s.Confidence)
	}
	if s.Locator.Type != locator.TypeXPath {
		t.Errorf("got type %q, want xpath", s.Locator.Type)
	}
	if !strings.Contains(s.Locator.Value, "'login_btn'") {
		t.Errorf("got %q, want stable prefix login_btn", s.Locator.Value)
	}
}

func TestPartialIdentifier_NoSeparators(t *testing.T) {
	g := newGenerators(mock.New())
	if s := g.partialIdentifier(locator.Locator{Type: locator.TypeID, Value: "loginbtn"}); s != nil {
		t.Errorf("expected no strategy for a plain id, got %+v", s)
	}
}

func TestTextDerivation(t *testing.T) {
	g := newGenerators(mock.New())

	s := g.textDerivation(locator.Locator{Type: locator.TypeID, Value: "login_btn"})
	if s == nil {
		t.Fatal("expected a strategy")
	}
	if s.Confidence != 0.6 {
		t.Errorf("got confidence %v, want 0.6", s.Confidence)
	}
	if !strings.Contains(s.Locator.Value, "Login Btn") {
		t.Errorf("got %q, want derived phrase Login Btn", s.Locator.Value)
	}

	if s := g.textDerivation(locator.Locator{Type: locator.TypeXPath, Value: "//a"}); s != nil {
		t.Errorf("xpath locators should not derive text strategies, got %+v", s)
	}
}

func TestTitleWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login_btn", "Login Btn"},
		{"submit-order", "Submit Order"},
		{"ALL_CAPS", "All Caps"},
		{"éditer_btn", "Éditer Btn"}, // first rune, not first byte
	}
	for _, tt := range tests {
		if got := titleWords(tt.in); got != tt.want {
			t.Errorf("titleWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStructuralRelaxation(t *testing.T) {
	g := newGenerators(mock.New())

	s := g.structuralRelaxation(locator.Locator{
		Type:  locator.TypeXPath,
		Value: "//android.widget.ListView[1]/android.widget.TextView[3]",
	})
	if s == nil {
		t.Fatal("expected a strategy")
	}
	if s.Confidence != 0.5 {
		t.Errorf("got confidence %v, want 0.5", s.Confidence)
	}
	want := "//android.widget.ListView/android.widget.TextView"
	if s.Locator.Value != want {
		t.Errorf("got %q, want %q", s.Locator.Value, want)
	}

	// No indexes to remove means no strategy.
	if s := g.structuralRelaxation(locator.Locator{Type: locator.TypeXPath, Value: "//a/b"}); s != nil {
		t.Errorf("expected no strategy without positional constraints, got %+v", s)
	}
}

func TestSelectorConversion(t *testing.T) {
	g := newGenerators(mock.New())

	tests := []struct {
		name string
		loc  locator.Locator
		want string
	}{
		{"id", locator.Locator{Type: locator.TypeID, Value: "login_btn"}, "#login_btn"},
		{"class", locator.Locator{Type: locator.TypeClass, Value: "btn primary"}, ".btn.primary"},
		{"name", locator.Locator{Type: locator.TypeName, Value: "email"}, "[name='email']"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := g.selectorConversion(tt.loc)
			if s == nil {
				t.Fatal("expected a strategy")
			}
			if s.Confidence != 0.65 {
				t.Errorf("got confidence %v, want 0.65", s.Confidence)
			}
			if s.Locator.Type != locator.TypeCSS {
				t.Errorf("got type %q, want css", s.Locator.Type)
			}
			if s.Locator.Value != tt.want {
				t.Errorf("got %q, want %q", s.Locator.Value, tt.want)
			}
		})
	}

	if s := g.selectorConversion(locator.Locator{Type: locator.TypeXPath, Value: "//a"}); s != nil {
		t.Errorf("expected no conversion for xpath, got %+v", s)
	}
}

func TestLearnedPrediction(t *testing.T) {
	d := mock.New()
	d.SetSample(mock.DefaultSurface, []*core.Element{
		{ID: "el-1", Attributes: map[string]string{"resource-id": "toolbar_title"}, Text: "Welcome"},
		{ID: "el-2", Attributes: map[string]string{"resource-id": "login_button"}, Text: "Login"},
	})
	g := newGenerators(d)

	s := g.learnedPrediction(locator.Locator{Type: locator.TypeID, Value: "login_button_x"})
	if s == nil {
		t.Fatal("expected a learned strategy")
	}
	if s.Name != StrategyLearned {
		t.Errorf("got name %q, want %q", s.Name, StrategyLearned)
	}
	if s.Locator.Type != locator.TypeID || s.Locator.Value != "login_button" {
		t.Errorf("got locator %v, want id=login_button", s.Locator)
	}
	if s.Confidence <= 0.6 || s.Confidence > 1 {
		t.Errorf("confidence %v outside (0.6, 1]", s.Confidence)
	}
}

func TestLearnedPrediction_BelowFloor(t *testing.T) {
	d := mock.New()
	d.SetSample(mock.DefaultSurface, []*core.Element{
		{ID: "el-1", Attributes: map[string]string{"resource-id": "zzzz"}, Text: "qqqq"},
	})
	g := newGenerators(d)

	if s := g.learnedPrediction(locator.Locator{Type: locator.TypeID, Value: "login_button"}); s != nil {
		t.Errorf("expected no strategy below the acceptance floor, got %+v", s)
	}
}

func TestLearnedPrediction_EmptySample(t *testing.T) {
	g := newGenerators(mock.New())
	if s := g.learnedPrediction(locator.Locator{Type: locator.TypeID, Value: "login_button"}); s != nil {
		t.Errorf("expected no strategy with an empty sample, got %+v", s)
	}
}

func TestVisualRecognition_EmitsNothing(t *testing.T) {
	g := newGenerators(mock.New())
	if s := g.visualRecognition(locator.Locator{Type: locator.TypeImage, Value: "logo.png"}); s != nil {
		t.Errorf("visual recognition is an extension point and must emit nothing, got %+v", s)
	}
}
