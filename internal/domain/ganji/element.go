// Package ganji defines the closed symbol sets of the sexagenary calendar:
// the five elements, the ten heavenly stems, the twelve earthly branches,
// pillars built from them, and the ten-god relationship between stems.
//
// Every enumeration is a small integer type with a fixed value set.  Parsing
// from names is strict: an unknown name is an error, never a default.
package ganji

import (
	"fmt"
	"strings"
)

// Element is one of the five phases (Ohaeng).  The numeric order is the
// generation order, so e generates e+1 and controls e+2 (mod 5).
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the size of the element cycle.
const ElementCount = 5

var elementNames = [ElementCount]string{"Wood", "Fire", "Earth", "Metal", "Water"}

// Elements lists all elements in generation order.
func Elements() []Element {
	return []Element{Wood, Fire, Earth, Metal, Water}
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e >= Wood && e <= Water }

func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Generates returns the element e generates (Wood → Fire → Earth → Metal → Water → Wood).
func (e Element) Generates() Element { return Element((int(e) + 1) % ElementCount) }

// Controls returns the element e controls (Wood → Earth → Water → Fire → Metal → Wood).
func (e Element) Controls() Element { return Element((int(e) + 2) % ElementCount) }

// GeneratedBy returns the element that generates e.
func (e Element) GeneratedBy() Element { return Element((int(e) + 4) % ElementCount) }

// ControlledBy returns the element that controls e.
func (e Element) ControlledBy() Element { return Element((int(e) + 3) % ElementCount) }

// Distance returns the generation-order distance from e to target in [0,4]:
// 0 same, 1 generated by e, 2 controlled by e, 3 controls e, 4 generates e.
func (e Element) Distance(target Element) int {
	return ((int(target)-int(e))%ElementCount + ElementCount) % ElementCount
}

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("ganji: invalid element %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	v, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseElement resolves an element by its English name (case-insensitive).
func ParseElement(name string) (Element, error) {
	n := strings.TrimSpace(name)
	for i, s := range elementNames {
		if strings.EqualFold(s, n) {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("ganji: unknown element %q", name)
}

// Polarity is yin or yang.
type Polarity int

const (
	PolarityYang Polarity = iota
	PolarityYin
)

func (p Polarity) String() string {
	if p == PolarityYang {
		return "yang"
	}
	return "yin"
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

//Personal.AI order the ending
