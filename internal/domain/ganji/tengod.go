package ganji

import "fmt"

// TenGod (Sipseong) classifies a stem relative to the day master by element
// distance and polarity sameness.
type TenGod int

const (
	BiJian     TenGod = iota // companion, same polarity
	JieCai                   // companion, opposite polarity
	ShiShen                  // output, same polarity
	ShangGuan                // output, opposite polarity
	PianCai                  // wealth, same polarity
	ZhengCai                 // wealth, opposite polarity
	QiSha                    // authority, same polarity
	ZhengGuan                // authority, opposite polarity
	PianYin                  // resource, same polarity
	ZhengYin                 // resource, opposite polarity
)

// TenGodCount is the number of ten-god relationships.
const TenGodCount = 10

var tenGodLabels = [TenGodCount]string{
	"companion-same-polarity",
	"companion-opposite-polarity",
	"output-same-polarity",
	"output-opposite-polarity",
	"wealth-same-polarity",
	"wealth-opposite-polarity",
	"authority-same-polarity",
	"authority-opposite-polarity",
	"resource-same-polarity",
	"resource-opposite-polarity",
}

// TenGods lists all ten-gods in declaration order.
func TenGods() []TenGod {
	out := make([]TenGod, TenGodCount)
	for i := range out {
		out[i] = TenGod(i)
	}
	return out
}

func (t TenGod) String() string {
	if t < BiJian || t > ZhengYin {
		return fmt.Sprintf("TenGod(%d)", int(t))
	}
	return tenGodLabels[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t TenGod) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Category returns the five-way grouping of the ten-god.
func (t TenGod) Category() Category { return Category(int(t) / 2) }

// SamePolarity reports whether the ten-god is the same-polarity variant.
func (t TenGod) SamePolarity() bool { return int(t)%2 == 0 }

// TenGodOf derives the ten-god of target relative to dayMaster.
func TenGodOf(dayMaster, target Stem) TenGod {
	d := dayMaster.Element().Distance(target.Element())
	base := d * 2
	if dayMaster.Polarity() != target.Polarity() {
		base++
	}
	return TenGod(base)
}

// Category groups ten-gods by element distance from the day master.
type Category int

const (
	Companion Category = iota // same element
	Output                    // element generated by the day master
	Wealth                    // element controlled by the day master
	Authority                 // element controlling the day master
	Resource                  // element generating the day master
)

// CategoryCount is the number of ten-god categories.
const CategoryCount = 5

var categoryNames = [CategoryCount]string{"companion", "output", "wealth", "authority", "resource"}

func (c Category) String() string {
	if c < Companion || c > Resource {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ElementFor returns the element that plays category c for a day master of
// element dm.
func (c Category) ElementFor(dm Element) Element {
	return Element((int(dm) + int(c)) % ElementCount)
}

// CategoryOf returns the category that element e plays for a day master of
// element dm.
func CategoryOf(dm, e Element) Category {
	return Category(dm.Distance(e))
}

//Personal.AI order the ending
