package relation

import (
	"fmt"
	"strings"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
)

// Outcome is the effective state of a hit after interaction resolution.
type Outcome string

const (
	Active       Outcome = "active"
	Strengthened Outcome = "strengthened"
	Weakened     Outcome = "weakened"
	Broken       Outcome = "broken"
)

// Outcomes lists every outcome.
func Outcomes() []Outcome {
	return []Outcome{Active, Strengthened, Weakened, Broken}
}

// severity orders outcomes when several neighbours act on one hit.
func (o Outcome) severity() int {
	switch o {
	case Broken:
		return 3
	case Weakened:
		return 2
	case Strengthened:
		return 1
	}
	return 0
}

// Interaction records the effect of one overlapping neighbour.
type Interaction struct {
	With   string  `json:"with"`
	Rule   string  `json:"rule"`
	Effect Outcome `json:"effect"`
}

// Resolved is a hit with its arbitrated outcome.
type Resolved struct {
	Hit            Hit             `json:"hit"`
	Outcome        Outcome         `json:"outcome"`
	Interactions   []Interaction   `json:"interactions"`
	Reasoning      string          `json:"reasoning"`
	Transformation *Transformation `json:"transformation,omitempty"`
	Score          ScoreBreakdown  `json:"score"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Rule table
// ─────────────────────────────────────────────────────────────────────────────

// rule is one row of the interaction table.  match is evaluated with the hit
// under resolution as self and an overlapping neighbour as other.
type rule struct {
	name      string
	minShared int
	match     func(self, other Hit) bool
	effect    func(r *Resolver, self, other Hit) Outcome
}

func fixed(o Outcome) func(*Resolver, Hit, Hit) Outcome {
	return func(*Resolver, Hit, Hit) Outcome { return o }
}

func typeIs(ts ...Type) func(Type) bool {
	return func(t Type) bool {
		for _, x := range ts {
			if t == x {
				return true
			}
		}
		return false
	}
}

var isCombination = func(t Type) bool { return t.IsBranchCombination() }

func pairRule(self, other func(Type) bool) func(Hit, Hit) bool {
	return func(s, o Hit) bool { return self(s.Type) && other(o.Type) }
}

// interactionRules is evaluated top to bottom; the first matching row wins.
var interactionRules = []rule{
	{
		name:      "combination and penalty coexist",
		minShared: 1,
		match:     pairRule(isCombination, typeIs(Penalty)),
		effect:    fixed(Active),
	},
	{
		name:      "penalty and combination coexist",
		minShared: 1,
		match:     pairRule(typeIs(Penalty), isCombination),
		effect:    fixed(Active),
	},
	{
		name:      "clash on the same members strengthens the penalty",
		minShared: 2,
		match:     pairRule(typeIs(Penalty), typeIs(Clash)),
		effect:    fixed(Strengthened),
	},
	{
		name:      "completed three-combination weakens the clash",
		minShared: 1,
		match:     pairRule(typeIs(Clash), typeIs(ThreeCombination)),
		effect:    fixed(Weakened),
	},
	{
		name:      "clash breaks the partial combination",
		minShared: 1,
		match:     pairRule(typeIs(PartialCombination), typeIs(Clash)),
		effect:    fixed(Broken),
	},
	{
		name:      "harm weakens the six-combination",
		minShared: 1,
		match:     pairRule(typeIs(SixCombination), typeIs(Harm)),
		effect:    fixed(Weakened),
	},
	{
		name:      "break on two members weakens the combination",
		minShared: 2,
		match:     pairRule(isCombination, typeIs(Break)),
		effect:    fixed(Weakened),
	},
	{
		name:      "penalty pairs compose a three-way penalty",
		minShared: 1,
		match:     pairRule(typeIs(Penalty), typeIs(Penalty)),
		effect: func(r *Resolver, self, other Hit) Outcome {
			if r.composesTriple(self, other) {
				return Strengthened
			}
			return Active
		},
	},
	{
		name:      "clash against six-combination by adjacency",
		minShared: 1,
		match:     pairRule(typeIs(SixCombination), typeIs(Clash)),
		effect: func(_ *Resolver, self, other Hit) Outcome {
			if looseMemberAdjacent(self, other) {
				return Broken
			}
			return Weakened
		},
	},
	{
		name:      "six-combination against clash by adjacency",
		minShared: 1,
		match:     pairRule(typeIs(Clash), typeIs(SixCombination)),
		effect: func(_ *Resolver, self, other Hit) Outcome {
			if looseMemberAdjacent(self, other) {
				return Broken
			}
			return Weakened
		},
	},
}

// fallbackRule weakens the lower-priority hit when no table row matches.
const fallbackRule = "type priority"

// looseMemberAdjacent reports whether a member of b that a does not share
// sits next to a position of a member they do share.
func looseMemberAdjacent(a, b Hit) bool {
	var shared, loose []Member
	for _, m := range b.Members {
		if _, ok := a.member(m.id()); ok {
			shared = append(shared, m)
		} else {
			loose = append(loose, m)
		}
	}
	for _, l := range loose {
		for _, s := range shared {
			for _, lp := range l.Positions {
				for _, sp := range s.Positions {
					if ganji.Adjacent(lp, sp) {
						return true
					}
				}
			}
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolver
// ─────────────────────────────────────────────────────────────────────────────

// Resolver arbitrates overlapping hits.
type Resolver struct {
	cat *Catalog
}

// NewResolver returns a Resolver over cat; nil selects DefaultCatalog.
func NewResolver(cat *Catalog) *Resolver {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Resolver{cat: cat}
}

func (r *Resolver) composesTriple(a, b Hit) bool {
	if a.SubKind == "self" || b.SubKind == "self" || a.SubKind == "three-way" || b.SubKind == "three-way" {
		return false
	}
	set := make(map[ganji.Branch]bool)
	for _, h := range []Hit{a, b} {
		for _, m := range h.Members {
			br, err := ganji.ParseBranch(m.Symbol)
			if err != nil {
				return false
			}
			set[br] = true
		}
	}
	_, ok := r.cat.PenaltyTriple(set)
	return ok
}

// decide applies the rule table to one (self, other) pair.
func (r *Resolver) decide(self, other Hit, shared int) (string, Outcome) {
	for _, rl := range interactionRules {
		if shared < rl.minShared || !rl.match(self, other) {
			continue
		}
		return rl.name, rl.effect(r, self, other)
	}
	if other.Type.Priority() > self.Type.Priority() {
		return fallbackRule, Weakened
	}
	return fallbackRule, Active
}

// Resolve computes every hit's outcome.  The result is one-to-one with hits
// and in the same order.
func (r *Resolver) Resolve(hits []Hit) []Resolved {
	out := make([]Resolved, len(hits))
	for i, h := range hits {
		res := Resolved{Hit: h, Outcome: Active, Interactions: []Interaction{}}
		var reasons []string
		for j, o := range hits {
			if i == j {
				continue
			}
			shared := h.Shared(o)
			if shared == 0 {
				continue
			}
			name, effect := r.decide(h, o, shared)
			res.Interactions = append(res.Interactions, Interaction{With: o.Key(), Rule: name, Effect: effect})
			if effect.severity() > res.Outcome.severity() {
				res.Outcome = effect
			}
			if effect != Active {
				reasons = append(reasons, fmt.Sprintf("%s by %s (%s)", effect, o, name))
			}
		}
		switch {
		case len(res.Interactions) == 0:
			res.Reasoning = fmt.Sprintf("%s has no overlapping relations", h)
		case len(reasons) == 0:
			res.Reasoning = fmt.Sprintf("%s overlaps %d relations without effect", h, len(res.Interactions))
		default:
			res.Reasoning = fmt.Sprintf("%s %s: %s", h, res.Outcome, strings.Join(reasons, "; "))
		}
		out[i] = res
	}
	return out
}

//Personal.AI order the ending
