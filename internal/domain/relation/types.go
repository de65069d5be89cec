// Package relation detects, arbitrates and scores the combination, clash,
// penalty, break, harm and grudge relationships among a chart's stems and
// branches.
package relation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
)

// ─────────────────────────────────────────────────────────────────────────────
// Type
// ─────────────────────────────────────────────────────────────────────────────

// Type is the kind of a relationship hit.
type Type string

const (
	SixCombination       Type = "six-combination"
	ThreeCombination     Type = "three-combination"
	DirectionCombination Type = "direction-combination"
	PartialCombination   Type = "partial-combination"
	Clash                Type = "clash"
	Penalty              Type = "penalty"
	Break                Type = "break"
	Harm                 Type = "harm"
	Grudge               Type = "grudge"
	StemCombination      Type = "stem-combination"
	StemClash            Type = "stem-clash"
)

// Types lists every relation type in descending interaction priority.
func Types() []Type {
	return []Type{
		ThreeCombination, DirectionCombination, SixCombination, StemCombination,
		PartialCombination, Clash, StemClash, Penalty, Break, Harm, Grudge,
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t.Priority() > 0
}

// Priority ranks types for the generic interaction fallback; higher wins.
func (t Type) Priority() int {
	switch t {
	case ThreeCombination:
		return 11
	case DirectionCombination:
		return 10
	case SixCombination:
		return 9
	case StemCombination:
		return 8
	case PartialCombination:
		return 7
	case Clash:
		return 6
	case StemClash:
		return 5
	case Penalty:
		return 4
	case Break:
		return 3
	case Harm:
		return 2
	case Grudge:
		return 1
	}
	return 0
}

// IsBranchCombination reports whether t is one of the four branch
// combination types.
func (t Type) IsBranchCombination() bool {
	switch t {
	case SixCombination, ThreeCombination, DirectionCombination, PartialCombination:
		return true
	}
	return false
}

// IsStem reports whether t relates stems rather than branches.
func (t Type) IsStem() bool {
	return t == StemCombination || t == StemClash
}

// ─────────────────────────────────────────────────────────────────────────────
// Member
// ─────────────────────────────────────────────────────────────────────────────

// MemberKind distinguishes stem members from branch members.
type MemberKind string

const (
	StemMember   MemberKind = "stem"
	BranchMember MemberKind = "branch"
)

// Member is one symbol taking part in a hit, with every pillar position it
// occupies in the chart.
type Member struct {
	Kind      MemberKind       `json:"kind"`
	Symbol    string           `json:"symbol"`
	Positions []ganji.Position `json:"positions"`
}

func (m Member) id() string { return string(m.Kind) + ":" + m.Symbol }

func (m Member) String() string { return m.Symbol }

// ─────────────────────────────────────────────────────────────────────────────
// Hit
// ─────────────────────────────────────────────────────────────────────────────

// Partial-combination sub-kinds, named by the two members present.
const (
	PartialBirthPeak = "birth-peak"
	PartialPeakTomb  = "peak-tomb"
	PartialBirthTomb = "birth-tomb"
)

// Hit is one matched catalog relationship.
type Hit struct {
	Type    Type     `json:"type"`
	Members []Member `json:"members"`
	Note    string   `json:"note"`
	// Element is the element produced by a combination, if any.
	Element *ganji.Element `json:"element,omitempty"`
	// SubKind distinguishes partial-combination and penalty variants.
	SubKind string `json:"sub_kind,omitempty"`
}

// Key is the deduplication key (type, sorted member symbols, note).
func (h Hit) Key() string {
	ids := make([]string, len(h.Members))
	for i, m := range h.Members {
		ids[i] = m.id()
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s|%s|%s", h.Type, strings.Join(ids, ","), h.Note)
}

// Symbols returns the member symbols in hit order.
func (h Hit) Symbols() []string {
	out := make([]string, len(h.Members))
	for i, m := range h.Members {
		out[i] = m.Symbol
	}
	return out
}

func (h Hit) String() string {
	return fmt.Sprintf("%s(%s)", h.Type, strings.Join(h.Symbols(), "-"))
}

// Shared counts the members h and o have in common, by symbol.
func (h Hit) Shared(o Hit) int {
	n := 0
	for _, a := range h.Members {
		for _, b := range o.Members {
			if a.id() == b.id() {
				n++
				break
			}
		}
	}
	return n
}

// Adjacent reports whether any two member occurrences sit in neighbouring
// pillars.
func (h Hit) Adjacent() bool {
	var all []ganji.Position
	owner := []int{}
	for i, m := range h.Members {
		for _, p := range m.Positions {
			all = append(all, p)
			owner = append(owner, i)
		}
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if len(h.Members) > 1 && owner[i] == owner[j] {
				continue
			}
			if ganji.Adjacent(all[i], all[j]) {
				return true
			}
		}
	}
	return false
}

func (h Hit) member(id string) (Member, bool) {
	for _, m := range h.Members {
		if m.id() == id {
			return m, true
		}
	}
	return Member{}, false
}

//Personal.AI order the ending
