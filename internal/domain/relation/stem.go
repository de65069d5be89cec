package relation

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// TransformState is the resolved state of a stem combination.
type TransformState string

const (
	FullyTransformed TransformState = "fully-transformed"
	Suppressed       TransformState = "suppressed"
	NotEstablished   TransformState = "not-established"
	Undetermined     TransformState = "undetermined"
)

// TransformStates lists every state.
func TransformStates() []TransformState {
	return []TransformState{FullyTransformed, Suppressed, NotEstablished, Undetermined}
}

// Strictness selects how demanding transformation detection is.
type Strictness string

const (
	Lenient Strictness = "lenient"
	// Strict additionally requires the day master to take part.
	Strict Strictness = "strict"
)

// ParseStrictness resolves a strictness name; empty selects Lenient.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidOptions, "unknown transformation strictness %q", s)
}

const (
	transformBaseConfidence = 0.80
	transformBranchBonus    = 0.05
	transformMaxConfidence  = 0.95
)

// Transformation is the evaluation of one stem-combination hit.
type Transformation struct {
	Stems      [2]ganji.Stem    `json:"stems"`
	Positions  []ganji.Position `json:"positions"`
	Result     ganji.Element    `json:"result"`
	State      TransformState   `json:"state"`
	Confidence float64          `json:"confidence"`
	// Suppressor is the element that blocked the transformation, if any.
	Suppressor *ganji.Element `json:"suppressor,omitempty"`
	Reasoning  string         `json:"reasoning"`
}

// InvolvesDayMaster reports whether the day stem is one of the combining
// stems.
func (t Transformation) InvolvesDayMaster() bool {
	for _, p := range t.Positions {
		if p == ganji.DayPosition {
			return true
		}
	}
	return false
}

// EvaluateStemCombination decides whether a stem-combination hit transforms
// into its result element.  Rules, first match wins:
//
//  1. the two stems never sit in neighbouring pillars: not established;
//  2. another stem, or the month branch, controls the result element:
//     suppressed;
//  3. the month branch carries the result element (strict mode also needs the
//     day master to combine): fully transformed;
//  4. otherwise undetermined.
func EvaluateStemCombination(ps ganji.PillarSet, hit Hit, strictness Strictness) Transformation {
	tr := Transformation{State: Undetermined}
	if hit.Type != StemCombination || len(hit.Members) != 2 || hit.Element == nil {
		tr.Reasoning = "not a stem combination"
		return tr
	}
	result := *hit.Element
	tr.Result = result
	a, _ := ganji.ParseStem(hit.Members[0].Symbol)
	b, _ := ganji.ParseStem(hit.Members[1].Symbol)
	tr.Stems = [2]ganji.Stem{a, b}

	pa, pb := hit.Members[0].Positions, hit.Members[1].Positions
	var used []ganji.Position
	adjacent := false
	for _, x := range pa {
		for _, y := range pb {
			if ganji.Adjacent(x, y) {
				adjacent = true
				used = appendPos(used, x)
				used = appendPos(used, y)
			}
		}
	}
	label := fmt.Sprintf("%s-%s combination to %s", a, b, result)
	if !adjacent {
		tr.State = NotEstablished
		tr.Positions = append(append([]ganji.Position(nil), pa...), pb...)
		tr.Reasoning = label + ": stems are not in neighbouring pillars"
		return tr
	}
	tr.Positions = used

	for _, pos := range ganji.Positions() {
		if containsPos(used, pos) {
			continue
		}
		s := ps.At(pos).Stem
		if s.Element().Controls() == result {
			e := s.Element()
			tr.State = Suppressed
			tr.Suppressor = &e
			tr.Reasoning = fmt.Sprintf("%s: %s stem %s (%s) controls %s", label, pos, s, e, result)
			return tr
		}
	}
	month := ps.Month().Branch
	if month.Element().Controls() == result {
		e := month.Element()
		tr.State = Suppressed
		tr.Suppressor = &e
		tr.Reasoning = fmt.Sprintf("%s: month branch %s (%s) controls %s", label, month, e, result)
		return tr
	}

	if month.Element() == result {
		if strictness == Strict && !tr.InvolvesDayMaster() {
			tr.Reasoning = fmt.Sprintf("%s: month branch %s supports %s but the day master does not combine", label, month, result)
			return tr
		}
		extra := 0
		for _, pos := range ganji.Positions() {
			if pos != ganji.MonthPosition && ps.At(pos).Branch.Element() == result {
				extra++
			}
		}
		tr.State = FullyTransformed
		tr.Confidence = math.Min(transformMaxConfidence, transformBaseConfidence+transformBranchBonus*float64(extra))
		tr.Reasoning = fmt.Sprintf("%s: month branch %s carries %s with %d further supporting branches", label, month, result, extra)
		return tr
	}

	tr.Reasoning = fmt.Sprintf("%s: month branch %s (%s) neither supports nor blocks %s", label, month, month.Element(), result)
	return tr
}

func appendPos(ps []ganji.Position, p ganji.Position) []ganji.Position {
	if containsPos(ps, p) {
		return ps
	}
	return append(ps, p)
}

func containsPos(ps []ganji.Position, p ganji.Position) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
