package relation

import (
	"fmt"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
)

// Options tunes relation detection and transformation evaluation.
type Options struct {
	// Banhap enables partial (two-of-three) combinations.
	Banhap bool `json:"banhap" mapstructure:"banhap"`
	// Strictness selects the stem-transformation rule set.
	Strictness Strictness `json:"strictness" mapstructure:"strictness"`
}

// DefaultOptions enables banhap with lenient transformation detection.
func DefaultOptions() Options {
	return Options{Banhap: true, Strictness: Lenient}
}

// Analyzer matches a pillar set against a catalog.
type Analyzer struct {
	cat *Catalog
}

// NewAnalyzer returns an Analyzer over cat; nil selects DefaultCatalog.
func NewAnalyzer(cat *Catalog) *Analyzer {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Analyzer{cat: cat}
}

// chartIndex records where each symbol sits in a chart.
type chartIndex struct {
	branches map[ganji.Branch][]ganji.Position
	stems    map[ganji.Stem][]ganji.Position
}

func indexChart(ps ganji.PillarSet) chartIndex {
	ix := chartIndex{
		branches: make(map[ganji.Branch][]ganji.Position),
		stems:    make(map[ganji.Stem][]ganji.Position),
	}
	for _, pos := range ganji.Positions() {
		p := ps.At(pos)
		ix.branches[p.Branch] = append(ix.branches[p.Branch], pos)
		ix.stems[p.Stem] = append(ix.stems[p.Stem], pos)
	}
	return ix
}

func (ix chartIndex) hasAll(bs []ganji.Branch) bool {
	for _, b := range bs {
		if len(ix.branches[b]) == 0 {
			return false
		}
	}
	return true
}

func (ix chartIndex) branchMembers(bs ...ganji.Branch) []Member {
	out := make([]Member, len(bs))
	for i, b := range bs {
		out[i] = Member{Kind: BranchMember, Symbol: b.String(), Positions: append([]ganji.Position(nil), ix.branches[b]...)}
	}
	return out
}

func (ix chartIndex) stemMembers(ss ...ganji.Stem) []Member {
	out := make([]Member, len(ss))
	for i, s := range ss {
		out[i] = Member{Kind: StemMember, Symbol: s.String(), Positions: append([]ganji.Position(nil), ix.stems[s]...)}
	}
	return out
}

// hitSet deduplicates hits by Key while preserving first-seen order.
type hitSet struct {
	seen map[string]bool
	hits []Hit
}

func (s *hitSet) add(h Hit) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	k := h.Key()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.hits = append(s.hits, h)
}

func elementPtr(e ganji.Element) *ganji.Element { return &e }

// Analyze returns every catalog relationship present in the chart, in
// catalog order.
func (a *Analyzer) Analyze(ps ganji.PillarSet, opts Options) []Hit {
	ix := indexChart(ps)
	var out hitSet

	for _, g := range a.cat.Six {
		if ix.hasAll(g.Branches) {
			out.add(Hit{Type: SixCombination, Members: ix.branchMembers(g.Branches...), Note: fmt.Sprintf("six-combination to %s", g.Element), Element: elementPtr(g.Element)})
		}
	}

	for _, g := range a.cat.Three {
		if ix.hasAll(g.Branches) {
			out.add(Hit{Type: ThreeCombination, Members: ix.branchMembers(g.Branches...), Note: fmt.Sprintf("three-combination to %s", g.Element), Element: elementPtr(g.Element)})
			continue
		}
		if !opts.Banhap {
			continue
		}
		birth, peak, tomb := g.Branches[0], g.Branches[1], g.Branches[2]
		for _, pc := range []struct {
			a, b, missing ganji.Branch
			sub           string
		}{
			{birth, peak, tomb, PartialBirthPeak},
			{peak, tomb, birth, PartialPeakTomb},
			{birth, tomb, peak, PartialBirthTomb},
		} {
			if ix.hasAll([]ganji.Branch{pc.a, pc.b}) && len(ix.branches[pc.missing]) == 0 {
				out.add(Hit{
					Type:    PartialCombination,
					Members: ix.branchMembers(pc.a, pc.b),
					Note:    fmt.Sprintf("partial %s combination to %s (missing %s)", pc.sub, g.Element, pc.missing),
					Element: elementPtr(g.Element),
					SubKind: pc.sub,
				})
			}
		}
	}

	for _, g := range a.cat.Direction {
		if ix.hasAll(g.Branches) {
			out.add(Hit{Type: DirectionCombination, Members: ix.branchMembers(g.Branches...), Note: fmt.Sprintf("direction-combination to %s", g.Element), Element: elementPtr(g.Element)})
		}
	}

	pairHits(ix, &out, Clash, a.cat.Clashes)
	a.penalties(ix, &out)

	pairHits(ix, &out, Break, a.cat.Breaks)
	pairHits(ix, &out, Harm, a.cat.Harms)
	pairHits(ix, &out, Grudge, a.cat.Grudges)

	for _, sp := range a.cat.StemCombinations {
		if len(ix.stems[sp.Stems[0]]) > 0 && len(ix.stems[sp.Stems[1]]) > 0 {
			out.add(Hit{Type: StemCombination, Members: ix.stemMembers(sp.Stems[0], sp.Stems[1]), Note: fmt.Sprintf("stem combination to %s", sp.Element), Element: elementPtr(sp.Element)})
		}
	}
	for _, sp := range a.cat.StemClashes {
		if len(ix.stems[sp.Stems[0]]) > 0 && len(ix.stems[sp.Stems[1]]) > 0 {
			out.add(Hit{Type: StemClash, Members: ix.stemMembers(sp.Stems[0], sp.Stems[1]), Note: string(StemClash)})
		}
	}

	return out.hits
}

func pairHits(ix chartIndex, out *hitSet, t Type, groups []BranchGroup) {
	for _, g := range groups {
		if ix.hasAll(g.Branches) {
			out.add(Hit{Type: t, Members: ix.branchMembers(g.Branches...), Note: string(t)})
		}
	}
}

func (a *Analyzer) penalties(ix chartIndex, out *hitSet) {
	for _, g := range a.cat.PenaltyTriples {
		bs := g.Branches
		for i := 0; i < len(bs); i++ {
			for j := i + 1; j < len(bs); j++ {
				if ix.hasAll([]ganji.Branch{bs[i], bs[j]}) {
					out.add(Hit{Type: Penalty, Members: ix.branchMembers(bs[i], bs[j]), Note: g.Note + " penalty", SubKind: g.Note})
				}
			}
		}
		if ix.hasAll(bs) {
			out.add(Hit{Type: Penalty, Members: ix.branchMembers(bs...), Note: g.Note + " three-way penalty", SubKind: "three-way"})
		}
	}
	for _, g := range a.cat.PenaltyPairs {
		if ix.hasAll(g.Branches) {
			out.add(Hit{Type: Penalty, Members: ix.branchMembers(g.Branches...), Note: g.Note + " penalty", SubKind: g.Note})
		}
	}
	for _, b := range a.cat.SelfPenalty {
		if len(ix.branches[b]) >= 2 {
			out.add(Hit{Type: Penalty, Members: ix.branchMembers(b), Note: "self penalty", SubKind: "self"})
		}
	}
}

//Personal.AI order the ending
