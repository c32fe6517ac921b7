package enrich

// Scorer turns a provider and field category into a heuristic 0-100
// confidence score. The constants are empirical, not calibrated
// probabilities; treat the score as a review hint, nothing more.
type Scorer struct {
	bases   map[string]int
	penalty int
	minimum int
}

// DefaultBases are the per-provider base scores used when the
// configuration does not override them.
var DefaultBases = map[string]int{
	"openai":     88,
	"anthropic":  90,
	"google":     85,
	"openrouter": 82,
	"ollama":     75,
}

const (
	// DefaultValidationPenalty is subtracted when normalization rejects
	// the provider's output.
	DefaultValidationPenalty = 30
	// DefaultMinimum floors a penalized score so callers can still tell
	// "attempted but malformed" apart from total failure.
	DefaultMinimum = 30

	// unknownProviderBase covers providers added to the priority list
	// without a configured base score.
	unknownProviderBase = 80
)

// NewScorer creates a Scorer. A nil bases map selects DefaultBases.
func NewScorer(bases map[string]int, penalty, minimum int) *Scorer {
	if bases == nil {
		bases = DefaultBases
	}
	return &Scorer{bases: bases, penalty: penalty, minimum: minimum}
}

// Estimate computes the score: per-provider base, plus the field
// category's signed adjustment, clamped to [0,100]. A validation
// failure subtracts the penalty and floors at the configured minimum
// rather than zero.
func (s *Scorer) Estimate(provider string, kind FieldKind, validationFailed bool) int {
	base, ok := s.bases[provider]
	if !ok {
		base = unknownProviderBase
	}

	adjust := kindSpecs[KindNarrative].adjust
	if spec, ok := kindSpecs[kind]; ok {
		adjust = spec.adjust
	}

	score := clamp(base + adjust)
	if validationFailed {
		score -= s.penalty
		if score < s.minimum {
			score = s.minimum
		}
	}
	return score
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
