package ganji

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stem (Cheongan)
// ─────────────────────────────────────────────────────────────────────────────

// Stem is one of the ten heavenly stems.  Even indices are yang.
type Stem int

const (
	Jia Stem = iota
	Yi
	Bing
	Ding
	StemWu
	Ji
	Geng
	Xin
	Ren
	Gui
)

// StemCount is the number of heavenly stems.
const StemCount = 10

var stemNames = [StemCount]string{"Jia", "Yi", "Bing", "Ding", "Wu", "Ji", "Geng", "Xin", "Ren", "Gui"}

// Stems lists the ten stems in cyclic order.
func Stems() []Stem {
	out := make([]Stem, StemCount)
	for i := range out {
		out[i] = Stem(i)
	}
	return out
}

// StemAt returns the stem for any integer index, wrapping modulo 10.
func StemAt(i int) Stem { return Stem(mod(i, StemCount)) }

// Valid reports whether s is one of the ten stems.
func (s Stem) Valid() bool { return s >= Jia && s <= Gui }

func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemNames[s]
}

// Element returns the stem's element: each consecutive pair shares one.
func (s Stem) Element() Element { return Element(int(s) / 2) }

// Polarity returns yang for even stems and yin for odd stems.
func (s Stem) Polarity() Polarity { return Polarity(int(s) % 2) }

// MarshalText implements encoding.TextMarshaler.
func (s Stem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("ganji: invalid stem %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stem) UnmarshalText(text []byte) error {
	v, err := ParseStem(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStem resolves a stem by its romanised name (case-insensitive).
func ParseStem(name string) (Stem, error) {
	n := strings.TrimSpace(name)
	for i, s := range stemNames {
		if strings.EqualFold(s, n) {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("ganji: unknown stem %q", name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Branch (Jiji)
// ─────────────────────────────────────────────────────────────────────────────

// Branch is one of the twelve earthly branches.  Even indices are yang.
type Branch int

const (
	Zi Branch = iota
	Chou
	Yin
	Mao
	Chen
	Si
	BranchWu
	Wei
	Shen
	You
	Xu
	Hai
)

// BranchCount is the number of earthly branches.
const BranchCount = 12

var branchNames = [BranchCount]string{"Zi", "Chou", "Yin", "Mao", "Chen", "Si", "Wu", "Wei", "Shen", "You", "Xu", "Hai"}

var branchElements = [BranchCount]Element{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

// hiddenStems lists each branch's hidden stems; the principal stem is last.
var hiddenStems = [BranchCount][]Stem{
	Zi:       {Ren, Gui},
	Chou:     {Gui, Xin, Ji},
	Yin:      {StemWu, Bing, Jia},
	Mao:      {Jia, Yi},
	Chen:     {Yi, Gui, StemWu},
	Si:       {StemWu, Geng, Bing},
	BranchWu: {Bing, Ji, Ding},
	Wei:      {Ding, Yi, Ji},
	Shen:     {StemWu, Ren, Geng},
	You:      {Geng, Xin},
	Xu:       {Xin, Ding, StemWu},
	Hai:      {StemWu, Jia, Ren},
}

// Branches lists the twelve branches in cyclic order.
func Branches() []Branch {
	out := make([]Branch, BranchCount)
	for i := range out {
		out[i] = Branch(i)
	}
	return out
}

// BranchAt returns the branch for any integer index, wrapping modulo 12.
func BranchAt(i int) Branch { return Branch(mod(i, BranchCount)) }

// Valid reports whether b is one of the twelve branches.
func (b Branch) Valid() bool { return b >= Zi && b <= Hai }

func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Element returns the branch's own element.
func (b Branch) Element() Element { return branchElements[b] }

// Polarity returns yang for even branches and yin for odd branches.
func (b Branch) Polarity() Polarity { return Polarity(int(b) % 2) }

// HiddenStems returns a copy of the branch's hidden stems, principal last.
func (b Branch) HiddenStems() []Stem {
	src := hiddenStems[b]
	out := make([]Stem, len(src))
	copy(out, src)
	return out
}

// PrincipalStem returns the branch's principal (dominant) hidden stem.
func (b Branch) PrincipalStem() Stem {
	hs := hiddenStems[b]
	return hs[len(hs)-1]
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("ganji: invalid branch %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Branch) UnmarshalText(text []byte) error {
	v, err := ParseBranch(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBranch resolves a branch by its romanised name (case-insensitive).
func ParseBranch(name string) (Branch, error) {
	n := strings.TrimSpace(name)
	for i, s := range branchNames {
		if strings.EqualFold(s, n) {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("ganji: unknown branch %q", name)
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

//Personal.AI order the ending
