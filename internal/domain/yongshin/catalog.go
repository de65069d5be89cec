package yongshin

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/pkg/errors"
)

var (
	//go:embed seasonal.yaml
	seasonalYAML []byte

	//go:embed patterns.yaml
	patternsYAML []byte
)

// Pair is a primary element with an optional secondary.
type Pair struct {
	Primary   ganji.Element
	Secondary *ganji.Element
}

// Usage says whether a standard pattern is supported or restrained.
type Usage string

const (
	UsageSupportive Usage = "supportive"
	UsageReversed   Usage = "reversed"
)

// CategoryPair is a pattern's balancing categories relative to the day master.
type CategoryPair struct {
	Usage     Usage
	Primary   ganji.Category
	Secondary *ganji.Category
}

// Elements resolves the pair for a day-master element.
func (c CategoryPair) Elements(dm ganji.Element) Pair {
	p := Pair{Primary: c.Primary.ElementFor(dm)}
	if c.Secondary != nil {
		e := c.Secondary.ElementFor(dm)
		p.Secondary = &e
	}
	return p
}

// Catalog holds the seasonal table and the pattern mappings.
type Catalog struct {
	seasonal  [ganji.StemCount][ganji.BranchCount]Pair
	standard  map[gyeokguk.Pattern]CategoryPair
	following map[gyeokguk.Pattern]CategoryPair
}

// Seasonal returns the seasonal entry for a day master and month branch.
func (c *Catalog) Seasonal(dm ganji.Stem, month ganji.Branch) Pair {
	return c.seasonal[dm][month]
}

// Standard returns the mapping for a standard pattern.
func (c *Catalog) Standard(p gyeokguk.Pattern) (CategoryPair, bool) {
	cp, ok := c.standard[p]
	return cp, ok
}

// Following returns the mapping for a following-strength pattern.
func (c *Catalog) Following(p gyeokguk.Pattern) (CategoryPair, bool) {
	cp, ok := c.following[p]
	return cp, ok
}

var (
	catalogOnce    sync.Once
	defaultCatalog *Catalog
	catalogErr     error
)

// DefaultCatalog returns the embedded catalog, panicking if it is defective.
func DefaultCatalog() *Catalog {
	catalogOnce.Do(func() {
		defaultCatalog, catalogErr = LoadCatalog(seasonalYAML, patternsYAML)
	})
	if catalogErr != nil {
		panic(catalogErr)
	}
	return defaultCatalog
}

// LoadCatalog parses and validates both tables.  The seasonal table must
// cover every (stem, branch) pair and the pattern table every standard and
// following pattern.
func LoadCatalog(seasonal, patterns []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := c.loadSeasonal(seasonal); err != nil {
		return nil, err
	}
	if err := c.loadPatterns(patterns); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadSeasonal(data []byte) error {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogInvalid, "seasonal catalog: parse failed")
	}
	var seen [ganji.StemCount][ganji.BranchCount]bool
	for sName, months := range raw {
		s, err := ganji.ParseStem(sName)
		if err != nil {
			return errors.Newf(errors.ErrCodeCatalogUnknownName, "seasonal catalog: unknown stem %q", sName)
		}
		for bName, elems := range months {
			b, err := ganji.ParseBranch(bName)
			if err != nil {
				return errors.Newf(errors.ErrCodeCatalogUnknownName, "seasonal catalog: %s: unknown branch %q", s, bName)
			}
			pair, err := parsePair(elems)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeCatalogInvalid, "seasonal catalog: "+s.String()+"/"+b.String())
			}
			c.seasonal[s][b] = pair
			seen[s][b] = true
		}
	}
	for _, s := range ganji.Stems() {
		for _, b := range ganji.Branches() {
			if !seen[s][b] {
				return errors.Newf(errors.ErrCodeCatalogMissingEntry, "seasonal catalog: no entry for %s in %s month", s, b)
			}
		}
	}
	return nil
}

func parsePair(names []string) (Pair, error) {
	if len(names) < 1 || len(names) > 2 {
		return Pair{}, errors.Newf(errors.ErrCodeCatalogInvalid, "want 1 or 2 elements, got %d", len(names))
	}
	var p Pair
	var err error
	if p.Primary, err = ganji.ParseElement(names[0]); err != nil {
		return Pair{}, err
	}
	if len(names) == 2 {
		e, err := ganji.ParseElement(names[1])
		if err != nil {
			return Pair{}, err
		}
		if e == p.Primary {
			return Pair{}, errors.Newf(errors.ErrCodeCatalogInvalid, "secondary repeats primary %s", e)
		}
		p.Secondary = &e
	}
	return p, nil
}

type rawMapping struct {
	Usage     string `yaml:"usage"`
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

func (c *Catalog) loadPatterns(data []byte) error {
	var raw struct {
		Standard  map[string]rawMapping `yaml:"standard"`
		Following map[string]rawMapping `yaml:"following"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeCatalogInvalid, "pattern catalog: parse failed")
	}

	standard := make([]gyeokguk.Pattern, 0, ganji.TenGodCount)
	for _, tg := range ganji.TenGods() {
		standard = append(standard, gyeokguk.StandardPattern(tg))
	}
	following := []gyeokguk.Pattern{gyeokguk.ZongQiang, gyeokguk.CongSha, gyeokguk.CongEr, gyeokguk.CongCai, gyeokguk.CongShi}

	var err error
	if c.standard, err = mappings("standard", raw.Standard, standard, true); err != nil {
		return err
	}
	c.following, err = mappings("following", raw.Following, following, false)
	return err
}

func mappings(section string, raw map[string]rawMapping, want []gyeokguk.Pattern, needUsage bool) (map[gyeokguk.Pattern]CategoryPair, error) {
	known := make(map[gyeokguk.Pattern]bool, len(want))
	for _, p := range want {
		known[p] = true
	}
	out := make(map[gyeokguk.Pattern]CategoryPair, len(raw))
	for name, m := range raw {
		p := gyeokguk.Pattern(name)
		if !known[p] {
			return nil, errors.Newf(errors.ErrCodeCatalogUnknownName, "pattern catalog: %s: unknown pattern %q", section, name)
		}
		cp := CategoryPair{Usage: Usage(m.Usage)}
		if needUsage && cp.Usage != UsageSupportive && cp.Usage != UsageReversed {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "pattern catalog: %s: %s has invalid usage %q", section, name, m.Usage)
		}
		prim, ok := parseCategory(m.Primary)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogMissingEntry, "pattern catalog: %s: %s has no valid primary category", section, name)
		}
		cp.Primary = prim
		if m.Secondary != "" {
			sec, ok := parseCategory(m.Secondary)
			if !ok {
				return nil, errors.Newf(errors.ErrCodeCatalogUnknownName, "pattern catalog: %s: %s has unknown secondary %q", section, name, m.Secondary)
			}
			cp.Secondary = &sec
		}
		out[p] = cp
	}
	for _, p := range want {
		if _, ok := out[p]; !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogMissingEntry, "pattern catalog: %s: no entry for %s", section, p)
		}
	}
	return out, nil
}

func parseCategory(name string) (ganji.Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c := ganji.Companion; c <= ganji.Resource; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

//Personal.AI order the ending
