package gyeokguk

import (
	"fmt"
	"math"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/internal/domain/strength"
)

// band is a confidence interval for one following pattern.
type band struct{ min, max float64 }

var (
	zongQiangBand = band{0.85, 0.95}
	congShaBand   = band{0.80, 0.92}
	congCaiBand   = band{0.80, 0.92}
	congErBand    = band{0.78, 0.90}
	congShiBand   = band{0.70, 0.85}
)

const (
	dominanceFull    = 0.90
	dominancePartial = 0.75

	zongQiangMinCompanions = 4
	weakFollowingMinimum   = 3
	congShiMinimum         = 5
	congShiMaxSupport      = 1
)

// directionGroups are the branches belonging to each element's direction.
// Earth uses the four storage branches.
var directionGroups = [ganji.ElementCount][]ganji.Branch{
	ganji.Wood:  {ganji.Yin, ganji.Mao, ganji.Chen},
	ganji.Fire:  {ganji.Si, ganji.BranchWu, ganji.Wei},
	ganji.Earth: {ganji.Chen, ganji.Xu, ganji.Chou, ganji.Wei},
	ganji.Metal: {ganji.Shen, ganji.You, ganji.Xu},
	ganji.Water: {ganji.Hai, ganji.Zi, ganji.Chou},
}

// Input is everything the determiner reads.  Strength is optional; without
// it the following-strength phase is skipped.
type Input struct {
	Pillars   ganji.PillarSet
	Relations relation.Report
	Strength  *strength.Assessment
}

// Determiner runs the four phases in order; the first that matches wins.
type Determiner struct {
	thresholds Thresholds
}

// NewDeterminer returns a Determiner with the given thresholds.
func NewDeterminer(t Thresholds) *Determiner {
	return &Determiner{thresholds: t}
}

// Thresholds returns the configured thresholds.
func (d *Determiner) Thresholds() Thresholds { return d.thresholds }

// Determine classifies in.Pillars.
func (d *Determiner) Determine(in Input) Result {
	if r, ok := d.transformation(in); ok {
		return r
	}
	if in.Strength != nil {
		if r, ok := d.following(in); ok {
			return r
		}
	}
	if r, ok := d.dominance(in); ok {
		return r
	}
	return d.standard(in)
}

// ─────────────────────────────────────────────────────────────────────────────
// Phases
// ─────────────────────────────────────────────────────────────────────────────

func (d *Determiner) transformation(in Input) (Result, bool) {
	tr, ok := in.Relations.FullyTransformed()
	if !ok {
		return Result{}, false
	}
	e := tr.Result
	return Result{
		Pattern:    TransformationPattern(e),
		Category:   CategoryTransformation,
		Element:    &e,
		Confidence: clamp01(tr.Confidence),
		Reasoning: fmt.Sprintf("day master %s (%s), month branch %s: %s-%s fully transform to %s; %s",
			in.Pillars.DayMaster(), in.Pillars.DayMaster().Element(), in.Pillars.Month().Branch,
			tr.Stems[0], tr.Stems[1], e, tr.Reasoning),
	}, true
}

func (d *Determiner) following(in Input) (Result, bool) {
	a := in.Strength
	counts := a.CategoriesFor(in.Pillars)
	dm := in.Pillars.DayMaster()
	prefix := fmt.Sprintf("day master %s (%s), month branch %s, support %.1f", dm, dm.Element(), in.Pillars.Month().Branch, a.TotalSupport)

	if a.TotalSupport >= d.thresholds.Strong {
		if counts.Companion >= zongQiangMinCompanions && counts.Wealth+counts.Authority == 0 {
			t := 1.0
			if d.thresholds.Strong < 100 {
				t = (a.TotalSupport - d.thresholds.Strong) / (100 - d.thresholds.Strong)
			}
			conf := zongQiangBand.scale(t)
			return d.followingResult(ZongQiang, ganji.Companion, dm, conf,
				fmt.Sprintf("%s >= %.1f with %d companions and no wealth or authority", prefix, d.thresholds.Strong, counts.Companion)), true
		}
		return Result{}, false
	}
	if a.TotalSupport > d.thresholds.Weak {
		return Result{}, false
	}

	t := 1.0
	if d.thresholds.Weak > 0 {
		t = (d.thresholds.Weak - a.TotalSupport) / d.thresholds.Weak
	}
	candidates := []struct {
		pattern Pattern
		cat     ganji.Category
		b       band
	}{
		{CongSha, ganji.Authority, congShaBand},
		{CongEr, ganji.Output, congErBand},
		{CongCai, ganji.Wealth, congCaiBand},
	}
	draining := []ganji.Category{ganji.Output, ganji.Wealth, ganji.Authority}
	for _, c := range candidates {
		n := counts.Of(c.cat)
		if n < weakFollowingMinimum || !exceedsOthers(counts, c.cat, draining) {
			continue
		}
		return d.followingResult(c.pattern, c.cat, dm, c.b.scale(t),
			fmt.Sprintf("%s <= %.1f with %s dominant (%d; %s)", prefix, d.thresholds.Weak, c.cat, n, counts)), true
	}
	drain := counts.Output + counts.Wealth + counts.Authority
	if drain >= congShiMinimum && counts.Support() <= congShiMaxSupport {
		return Result{
			Pattern:    CongShi,
			Category:   CategoryFollowingStrength,
			Confidence: congShiBand.scale(t),
			Reasoning:  fmt.Sprintf("%s <= %.1f with output, wealth and authority together at %d and support %d", prefix, d.thresholds.Weak, drain, counts.Support()),
		}, true
	}
	return Result{}, false
}

func (d *Determiner) followingResult(p Pattern, cat ganji.Category, dm ganji.Stem, conf float64, reasoning string) Result {
	e := cat.ElementFor(dm.Element())
	return Result{
		Pattern:    p,
		Category:   CategoryFollowingStrength,
		Element:    &e,
		Confidence: conf,
		Reasoning:  reasoning,
	}
}

func exceedsOthers(c strength.Counts, cat ganji.Category, group []ganji.Category) bool {
	n := c.Of(cat)
	for _, o := range group {
		if o != cat && c.Of(o) >= n {
			return false
		}
	}
	return true
}

func (d *Determiner) dominance(in Input) (Result, bool) {
	ps := in.Pillars
	dm := ps.DayMaster()
	dmElem := dm.Element()
	group := directionGroups[dmElem]

	matches := 0
	for _, b := range ps.Branches() {
		for _, g := range group {
			if b == g {
				matches++
				break
			}
		}
	}
	if matches < 3 {
		return Result{}, false
	}

	neutralised := make(map[ganji.Position]bool)
	for _, tr := range in.Relations.Transformations {
		if tr.State == relation.FullyTransformed || tr.State == relation.Suppressed {
			for _, p := range tr.Positions {
				neutralised[p] = true
			}
		}
	}
	controller := dmElem.ControlledBy()
	for _, pos := range ganji.Positions() {
		if pos == ganji.DayPosition {
			continue
		}
		s := ps.At(pos).Stem
		if s.Element() == controller && !neutralised[pos] {
			return Result{}, false
		}
	}

	conf := dominancePartial
	if matches == len(ps.Branches()) {
		conf = dominanceFull
	}
	return Result{
		Pattern:    DominancePattern(dmElem),
		Category:   CategoryDominance,
		Element:    &dmElem,
		Confidence: conf,
		Reasoning: fmt.Sprintf("day master %s (%s), month branch %s: %d of 4 branches in the %s direction and no active %s stem",
			dm, dmElem, ps.Month().Branch, matches, dmElem, controller),
	}, true
}

func (d *Determiner) standard(in Input) Result {
	ps := in.Pillars
	dm := ps.DayMaster()
	month := ps.Month().Branch
	principal := month.PrincipalStem()
	tg := ganji.TenGodOf(dm, principal)
	e := principal.Element()

	formation := FormationHidden
	for _, pos := range ganji.Positions() {
		if pos != ganji.DayPosition && ganji.TenGodOf(dm, ps.At(pos).Stem) == tg {
			formation = FormationRevealed
			break
		}
	}
	return Result{
		Pattern:    StandardPattern(tg),
		Category:   CategoryStandard,
		TenGod:     &tg,
		Element:    &e,
		Confidence: 1.0,
		Formation:  &formation,
		Reasoning: fmt.Sprintf("day master %s (%s), month branch %s: principal stem %s (%s) is %s",
			dm, dm.Element(), month, principal, e, tg),
	}
}

// scale maps t in [0,1] linearly onto the band, clamping outside it.
func (b band) scale(t float64) float64 {
	v := b.min + t*(b.max-b.min)
	return math.Max(b.min, math.Min(b.max, v))
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

//Personal.AI order the ending
