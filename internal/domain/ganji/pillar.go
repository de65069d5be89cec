package ganji

import (
	"encoding/json"
	"fmt"
)

// Position identifies one of the four pillars of a chart.
type Position int

const (
	YearPosition Position = iota
	MonthPosition
	DayPosition
	HourPosition
)

// PositionCount is the fixed length of a PillarSet.
const PositionCount = 4

var positionNames = [PositionCount]string{"year", "month", "day", "hour"}

// Positions lists the four positions in chart order.
func Positions() []Position {
	return []Position{YearPosition, MonthPosition, DayPosition, HourPosition}
}

func (p Position) String() string {
	if p < YearPosition || p > HourPosition {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Adjacent reports whether two positions are neighbours (index difference 1).
func Adjacent(a, b Position) bool {
	d := int(a) - int(b)
	return d == 1 || d == -1
}

// Pillar is an immutable stem/branch pair.
type Pillar struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

// NewPillar builds a pillar, rejecting parity-mismatched pairs which never
// occur in the sexagenary cycle.
func NewPillar(s Stem, b Branch) (Pillar, error) {
	if !s.Valid() || !b.Valid() {
		return Pillar{}, fmt.Errorf("ganji: invalid pillar %v/%v", s, b)
	}
	if s.Polarity() != b.Polarity() {
		return Pillar{}, fmt.Errorf("ganji: %s%s is not a sexagenary pair", s, b)
	}
	return Pillar{Stem: s, Branch: b}, nil
}

// MustPillar is NewPillar that panics on an invalid pair.  Intended for tests
// and static tables.
func MustPillar(s Stem, b Branch) Pillar {
	p, err := NewPillar(s, b)
	if err != nil {
		panic(err)
	}
	return p
}

// PillarFromIndex maps a sexagenary index (any integer, wrapped mod 60) to
// its pillar: stem = index mod 10, branch = index mod 12.
func PillarFromIndex(index int) Pillar {
	i := mod(index, 60)
	return Pillar{Stem: StemAt(i), Branch: BranchAt(i)}
}

// Index returns the pillar's sexagenary index in [0,60).
func (p Pillar) Index() int {
	// Chinese remainder: i ≡ stem (mod 10), i ≡ branch (mod 12).
	for i := int(p.Stem); i < 60; i += StemCount {
		if i%BranchCount == int(p.Branch) {
			return i
		}
	}
	return -1
}

func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// PillarSet is the four pillars in fixed order Year, Month, Day, Hour.
// It is a value type; copies never alias.
type PillarSet [PositionCount]Pillar

// NewPillarSet assembles a PillarSet in chart order.
func NewPillarSet(year, month, day, hour Pillar) PillarSet {
	return PillarSet{year, month, day, hour}
}

// Year returns the year pillar.
func (ps PillarSet) Year() Pillar { return ps[YearPosition] }

// Month returns the month pillar.
func (ps PillarSet) Month() Pillar { return ps[MonthPosition] }

// Day returns the day pillar.
func (ps PillarSet) Day() Pillar { return ps[DayPosition] }

// Hour returns the hour pillar.
func (ps PillarSet) Hour() Pillar { return ps[HourPosition] }

// At returns the pillar at a position.
func (ps PillarSet) At(p Position) Pillar { return ps[p] }

// DayMaster returns the day stem, the reference point of every ten-god.
func (ps PillarSet) DayMaster() Stem { return ps[DayPosition].Stem }

// Stems returns the four stems in chart order.
func (ps PillarSet) Stems() [PositionCount]Stem {
	return [PositionCount]Stem{ps[0].Stem, ps[1].Stem, ps[2].Stem, ps[3].Stem}
}

// Branches returns the four branches in chart order.
func (ps PillarSet) Branches() [PositionCount]Branch {
	return [PositionCount]Branch{ps[0].Branch, ps[1].Branch, ps[2].Branch, ps[3].Branch}
}

func (ps PillarSet) String() string {
	return fmt.Sprintf("%s %s %s %s", ps[0], ps[1], ps[2], ps[3])
}

// MarshalJSON renders the set as an object keyed by position name.
func (ps PillarSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year  Pillar `json:"year"`
		Month Pillar `json:"month"`
		Day   Pillar `json:"day"`
		Hour  Pillar `json:"hour"`
	}{ps[0], ps[1], ps[2], ps[3]})
}

//Personal.AI order the ending
