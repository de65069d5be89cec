package relation

import "math"

// ScoreBreakdown itemises a resolved relation's score.
type ScoreBreakdown struct {
	Base           float64 `json:"base"`
	AdjacencyBonus float64 `json:"adjacency_bonus"`
	Multiplier     float64 `json:"multiplier"`
	Total          float64 `json:"total"`
}

// Scorer turns resolved relations into numbers from the catalog score table.
type Scorer struct {
	scores ScoreTable
}

// NewScorer returns a Scorer over cat; nil selects DefaultCatalog.
func NewScorer(cat *Catalog) *Scorer {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Scorer{scores: cat.Scores}
}

// Score computes the breakdown for r.  Stem relations ignore the outcome
// multiplier; combinations score by transformation state instead.
func (s *Scorer) Score(r Resolved) ScoreBreakdown {
	var b ScoreBreakdown
	if r.Hit.Adjacent() {
		b.AdjacencyBonus = s.scores.AdjacencyBonus
	}
	switch r.Hit.Type {
	case StemCombination:
		state := Undetermined
		if r.Transformation != nil {
			state = r.Transformation.State
		}
		b.Base = s.scores.Transformation[state]
		b.Multiplier = 1
	case StemClash:
		b.Base = s.scores.Base[StemClash]
		b.Multiplier = 1
	case PartialCombination:
		b.Base = s.scores.Partial[r.Hit.SubKind]
		b.Multiplier = s.scores.Multipliers[r.Outcome]
	default:
		b.Base = s.scores.Base[r.Hit.Type]
		b.Multiplier = s.scores.Multipliers[r.Outcome]
	}
	b.Total = clamp((b.Base+b.AdjacencyBonus)*b.Multiplier, 0, 100)
	return b
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

//Personal.AI order the ending
