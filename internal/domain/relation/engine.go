package relation

import "github.com/turtacn/saju-engine/internal/domain/ganji"

// Report is the full relation analysis of one chart.
type Report struct {
	Relations       []Resolved       `json:"relations"`
	Transformations []Transformation `json:"transformations"`
	// TotalScore sums the relation totals.
	TotalScore float64 `json:"total_score"`
}

// FullyTransformed returns the first fully transformed stem combination.
func (r Report) FullyTransformed() (Transformation, bool) {
	for _, t := range r.Transformations {
		if t.State == FullyTransformed {
			return t, true
		}
	}
	return Transformation{}, false
}

// Count returns the number of relations of type t.
func (r Report) Count(t Type) int {
	n := 0
	for _, rel := range r.Relations {
		if rel.Hit.Type == t {
			n++
		}
	}
	return n
}

// Engine runs analysis, resolution, transformation evaluation and scoring
// over a single catalog.
type Engine struct {
	analyzer *Analyzer
	resolver *Resolver
	scorer   *Scorer
}

// NewEngine builds an Engine over cat; nil selects DefaultCatalog.
func NewEngine(cat *Catalog) *Engine {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Engine{
		analyzer: NewAnalyzer(cat),
		resolver: NewResolver(cat),
		scorer:   NewScorer(cat),
	}
}

// Evaluate produces the relation report for ps.
func (e *Engine) Evaluate(ps ganji.PillarSet, opts Options) Report {
	hits := e.analyzer.Analyze(ps, opts)
	resolved := e.resolver.Resolve(hits)
	rep := Report{Relations: resolved, Transformations: []Transformation{}}
	for i := range resolved {
		if resolved[i].Hit.Type == StemCombination {
			tr := EvaluateStemCombination(ps, resolved[i].Hit, opts.Strictness)
			resolved[i].Transformation = &tr
			rep.Transformations = append(rep.Transformations, tr)
		}
		resolved[i].Score = e.scorer.Score(resolved[i])
		rep.TotalScore += resolved[i].Score.Total
	}
	return rep
}

//Personal.AI order the ending
