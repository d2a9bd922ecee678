// Package scorers implements the four heuristic expert scorers. Each starts
// from a neutral 3.0, applies additive adjustments from its inputs, and
// clamps the result to the 1-5 scale. Missing inputs adjust nothing, so a
// ticker with no fundamentals data scores a neutral 3.0.
package scorers

// Scoring scale bounds.
const (
	BaseScore = 3.0
	MinScore  = 1.0
	MaxScore  = 5.0
)

// Result is the outcome of one expert scorer: the clamped score plus the
// individual adjustments that produced it, for report narration.
type Result struct {
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
	Reasons    []string           `json:"reasons"`
}

// builder accumulates adjustments on top of the neutral base.
type builder struct {
	score      float64
	components map[string]float64
	reasons    []string
}

func newBuilder() *builder {
	return &builder{score: BaseScore, components: make(map[string]float64)}
}

// add applies one named adjustment and records the reason shown in reports.
func (b *builder) add(component string, delta float64, reason string) {
	b.score += delta
	b.components[component] = delta
	b.reasons = append(b.reasons, reason)
}

// result clamps the accumulated score to the scale.
func (b *builder) result() Result {
	score := b.score
	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}
	return Result{Score: score, Components: b.components, Reasons: b.reasons}
}
