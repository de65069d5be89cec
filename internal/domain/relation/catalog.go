package relation

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/pkg/errors"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ─────────────────────────────────────────────────────────────────────────────
// Compiled catalog
// ─────────────────────────────────────────────────────────────────────────────

// BranchGroup is a catalog entry of two or three branches.
type BranchGroup struct {
	Branches []ganji.Branch
	Element  ganji.Element
	Note     string
}

// StemPair is a catalog entry of two stems.
type StemPair struct {
	Stems   [2]ganji.Stem
	Element ganji.Element
}

// ScoreTable holds the scorer's fixed numbers.
type ScoreTable struct {
	Base           map[Type]float64
	Partial        map[string]float64
	Transformation map[TransformState]float64
	AdjacencyBonus float64
	Multipliers    map[Outcome]float64
}

// Catalog is the validated, closed set of relation definitions.
type Catalog struct {
	Six       []BranchGroup
	Three     []BranchGroup
	Direction []BranchGroup
	Clashes   []BranchGroup
	Breaks    []BranchGroup
	Harms     []BranchGroup
	Grudges   []BranchGroup

	PenaltyTriples []BranchGroup
	PenaltyPairs   []BranchGroup
	SelfPenalty    []ganji.Branch

	StemCombinations []StemPair
	StemClashes      []StemPair

	Scores ScoreTable
}

// PenaltyTriple returns the penalty triple whose members are exactly set.
func (c *Catalog) PenaltyTriple(set map[ganji.Branch]bool) (BranchGroup, bool) {
	if len(set) != 3 {
		return BranchGroup{}, false
	}
	for _, g := range c.PenaltyTriples {
		match := true
		for _, b := range g.Branches {
			if !set[b] {
				match = false
				break
			}
		}
		if match {
			return g, true
		}
	}
	return BranchGroup{}, false
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog.  A defective embedded catalog
// is a build defect and panics on first use.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(defaultCatalogYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCatalog
}

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

type rawGroup struct {
	Members []string `yaml:"members"`
	Element string   `yaml:"element"`
	Note    string   `yaml:"note"`
}

type rawCatalog struct {
	Six       []rawGroup `yaml:"six_combinations"`
	Three     []rawGroup `yaml:"three_combinations"`
	Direction []rawGroup `yaml:"direction_combinations"`
	Clashes   [][]string `yaml:"clashes"`
	Penalties struct {
		Triples []rawGroup `yaml:"triples"`
		Pairs   []rawGroup `yaml:"pairs"`
		Self    []string   `yaml:"self"`
	} `yaml:"penalties"`
	Breaks           [][]string `yaml:"breaks"`
	Harms            [][]string `yaml:"harms"`
	Grudges          [][]string `yaml:"grudges"`
	StemCombinations []rawGroup `yaml:"stem_combinations"`
	StemClashes      [][]string `yaml:"stem_clashes"`
	Scores           struct {
		Base           map[string]float64 `yaml:"base"`
		Partial        map[string]float64 `yaml:"partial"`
		Transformation map[string]float64 `yaml:"transformation"`
		AdjacencyBonus float64            `yaml:"adjacency_bonus"`
		Multipliers    map[string]float64 `yaml:"multipliers"`
	} `yaml:"scores"`
}

// LoadCatalog parses and validates catalog YAML.  Any missing or unknown
// entry is an error; nothing is defaulted.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "relation catalog: parse failed")
	}
	l := &loader{}
	c := &Catalog{
		Six:              l.groups("six_combinations", raw.Six, 2, true, true),
		Three:            l.groups("three_combinations", raw.Three, 3, true, true),
		Direction:        l.groups("direction_combinations", raw.Direction, 3, true, true),
		Clashes:          l.pairs("clashes", raw.Clashes, true),
		Breaks:           l.pairs("breaks", raw.Breaks, true),
		Harms:            l.pairs("harms", raw.Harms, true),
		Grudges:          l.pairs("grudges", raw.Grudges, true),
		PenaltyTriples:   l.groups("penalties.triples", raw.Penalties.Triples, 3, false, false),
		PenaltyPairs:     l.groups("penalties.pairs", raw.Penalties.Pairs, 2, false, false),
		SelfPenalty:      l.branches("penalties.self", raw.Penalties.Self),
		StemCombinations: l.stemPairs("stem_combinations", raw.StemCombinations, true),
		StemClashes:      l.stemPairs("stem_clashes", groupsOf(raw.StemClashes), false),
	}
	for _, g := range c.PenaltyTriples {
		if g.Note == "" {
			l.fail(errors.ErrCodeCatalogMissingEntry, "penalties.triples: entry without note")
		}
	}
	for _, g := range c.PenaltyPairs {
		if g.Note == "" {
			l.fail(errors.ErrCodeCatalogMissingEntry, "penalties.pairs: entry without note")
		}
	}
	if len(c.SelfPenalty) == 0 {
		l.fail(errors.ErrCodeCatalogMissingEntry, "penalties.self: empty")
	}
	c.Scores = l.scores(raw)
	if l.err != nil {
		return nil, l.err
	}
	return c, nil
}

// loader accumulates the first validation error.
type loader struct {
	err error
}

func (l *loader) fail(code errors.ErrorCode, format string, args ...interface{}) {
	if l.err == nil {
		l.err = errors.Newf(code, "relation catalog: "+format, args...)
	}
}

func groupsOf(pairs [][]string) []rawGroup {
	out := make([]rawGroup, len(pairs))
	for i, p := range pairs {
		out[i] = rawGroup{Members: p}
	}
	return out
}

func (l *loader) branches(section string, names []string) []ganji.Branch {
	out := make([]ganji.Branch, 0, len(names))
	seen := make(map[ganji.Branch]bool)
	for _, n := range names {
		b, err := ganji.ParseBranch(n)
		if err != nil {
			l.fail(errors.ErrCodeCatalogUnknownName, "%s: unknown branch %q", section, n)
			continue
		}
		if seen[b] {
			l.fail(errors.ErrCodeCatalogInvalid, "%s: branch %s repeated", section, b)
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

func (l *loader) groups(section string, raw []rawGroup, size int, withElement, partition bool) []BranchGroup {
	out := make([]BranchGroup, 0, len(raw))
	covered := make(map[ganji.Branch]int)
	for _, r := range raw {
		if len(r.Members) != size {
			l.fail(errors.ErrCodeCatalogInvalid, "%s: entry %v has %d members, want %d", section, r.Members, len(r.Members), size)
			continue
		}
		g := BranchGroup{Branches: l.branches(section, r.Members), Note: r.Note}
		if withElement {
			e, err := ganji.ParseElement(r.Element)
			if err != nil {
				l.fail(errors.ErrCodeCatalogMissingEntry, "%s: entry %v has no valid element", section, r.Members)
			}
			g.Element = e
		}
		for _, b := range g.Branches {
			covered[b]++
		}
		out = append(out, g)
	}
	if partition {
		l.checkPartition(section, covered)
	}
	return out
}

func (l *loader) pairs(section string, raw [][]string, partition bool) []BranchGroup {
	return l.groups(section, groupsOf(raw), 2, false, partition)
}

func (l *loader) checkPartition(section string, covered map[ganji.Branch]int) {
	for _, b := range ganji.Branches() {
		switch covered[b] {
		case 1:
		case 0:
			l.fail(errors.ErrCodeCatalogMissingEntry, "%s: branch %s not covered", section, b)
		default:
			l.fail(errors.ErrCodeCatalogInvalid, "%s: branch %s appears %d times", section, b, covered[b])
		}
	}
}

func (l *loader) stemPairs(section string, raw []rawGroup, withElement bool) []StemPair {
	out := make([]StemPair, 0, len(raw))
	covered := make(map[ganji.Stem]int)
	for _, r := range raw {
		if len(r.Members) != 2 {
			l.fail(errors.ErrCodeCatalogInvalid, "%s: entry %v has %d members, want 2", section, r.Members, len(r.Members))
			continue
		}
		var p StemPair
		for i, n := range r.Members {
			s, err := ganji.ParseStem(n)
			if err != nil {
				l.fail(errors.ErrCodeCatalogUnknownName, "%s: unknown stem %q", section, n)
			}
			p.Stems[i] = s
			covered[s]++
		}
		if p.Stems[0] == p.Stems[1] {
			l.fail(errors.ErrCodeCatalogInvalid, "%s: entry %v pairs a stem with itself", section, r.Members)
		}
		if withElement {
			e, err := ganji.ParseElement(r.Element)
			if err != nil {
				l.fail(errors.ErrCodeCatalogMissingEntry, "%s: entry %v has no valid element", section, r.Members)
			}
			p.Element = e
		}
		out = append(out, p)
	}
	for s, n := range covered {
		if n > 1 {
			l.fail(errors.ErrCodeCatalogInvalid, "%s: stem %s appears %d times", section, s, n)
		}
	}
	if withElement {
		for _, s := range ganji.Stems() {
			if covered[s] == 0 {
				l.fail(errors.ErrCodeCatalogMissingEntry, "%s: stem %s not covered", section, s)
			}
		}
	}
	return out
}

func (l *loader) scores(raw rawCatalog) ScoreTable {
	st := ScoreTable{
		Base:           make(map[Type]float64),
		Partial:        make(map[string]float64),
		Transformation: make(map[TransformState]float64),
		AdjacencyBonus: raw.Scores.AdjacencyBonus,
		Multipliers:    make(map[Outcome]float64),
	}
	for k, v := range raw.Scores.Base {
		t := Type(k)
		if !t.Valid() || t == PartialCombination || t == StemCombination {
			l.fail(errors.ErrCodeCatalogUnknownName, "scores.base: unexpected type %q", k)
			continue
		}
		st.Base[t] = v
	}
	for _, t := range Types() {
		if t == PartialCombination || t == StemCombination {
			continue
		}
		if _, ok := st.Base[t]; !ok {
			l.fail(errors.ErrCodeCatalogMissingEntry, "scores.base: missing %s", t)
		}
	}
	for _, k := range []string{PartialBirthPeak, PartialPeakTomb, PartialBirthTomb} {
		v, ok := raw.Scores.Partial[k]
		if !ok {
			l.fail(errors.ErrCodeCatalogMissingEntry, "scores.partial: missing %s", k)
		}
		st.Partial[k] = v
	}
	for _, s := range TransformStates() {
		v, ok := raw.Scores.Transformation[string(s)]
		if !ok {
			l.fail(errors.ErrCodeCatalogMissingEntry, "scores.transformation: missing %s", s)
		}
		st.Transformation[s] = v
	}
	for _, o := range Outcomes() {
		v, ok := raw.Scores.Multipliers[string(o)]
		if !ok {
			l.fail(errors.ErrCodeCatalogMissingEntry, "scores.multipliers: missing %s", o)
		}
		st.Multipliers[o] = v
	}
	return st
}

//Personal.AI order the ending
