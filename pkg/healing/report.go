package healing

// Report summarizes the session's healing activity for the downstream
// reporting pipeline.
type Report struct {
	TotalHealings  int             `json:"totalHealings"`
	StrategiesUsed map[string]int  `json:"strategiesUsed"`
	HealedElements []HealedElement `json:"healedElements"`
}

// HealedElement is the per-element detail of one healed locator.
type HealedElement struct {
	Original   string  `json:"original"` // original locator key
	Strategy   string  `json:"strategy"`
	NewLocator string  `json:"newLocator"`
	Confidence float64 `json:"confidence"`
}

// BuildReport assembles a report from the cache contents.
func BuildReport(c *Cache) *Report {
	rep := &Report{
		TotalHealings:  c.Len(),
		StrategiesUsed: make(map[string]int),
	}
	for _, e := range c.Entries() {
		rep.StrategiesUsed[e.Strategy.Name]++
		rep.HealedElements = append(rep.HealedElements, HealedElement{
			Original:   e.Key,
			Strategy:   e.Strategy.Name,
			NewLocator: e.Strategy.Locator.String(),
			Confidence: e.Strategy.Confidence,
		})
	}
	return rep
}
