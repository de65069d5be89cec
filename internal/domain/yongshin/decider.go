// Package yongshin recommends a chart's balancing element by running several
// independent methods and merging them through an agreement model.
package yongshin

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/internal/domain/strength"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Types
// ─────────────────────────────────────────────────────────────────────────────

// Method names a recommendation method.
type Method string

const (
	MethodStrengthBalance Method = "strength-balance"
	MethodSeasonal        Method = "seasonal"
	MethodMediating       Method = "mediating"
	MethodPattern         Method = "pattern"
	MethodDiseaseRemedy   Method = "disease-remedy"
	MethodFollowing       Method = "following-strength"
	MethodTransformation  Method = "transformation"
)

// Agreement is the tier between the anchor and seasonal methods.
type Agreement string

const (
	FullAgree    Agreement = "full-agree"
	PartialAgree Agreement = "partial-agree"
	Disagree     Agreement = "disagree"
)

// Confidence returns the merged confidence of the tier.
func (a Agreement) Confidence() float64 {
	switch a {
	case FullAgree:
		return 0.95
	case PartialAgree:
		return 0.75
	}
	return 0.55
}

// Priority selects the winner when the methods disagree.
type Priority string

const (
	// StrengthFirst prefers the anchor method (strength balance, or the
	// following/transformation method when one applies).
	StrengthFirst     Priority = "strength-first"
	SeasonalFirst     Priority = "seasonal-first"
	HighestConfidence Priority = "highest-confidence"
)

// ParsePriority resolves a priority name; empty selects StrengthFirst.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrengthFirst:
		return StrengthFirst, nil
	case SeasonalFirst:
		return SeasonalFirst, nil
	case HighestConfidence:
		return HighestConfidence, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidOptions, "unknown yongshin priority %q", s)
}

// Recommendation is one method's verdict.
type Recommendation struct {
	Method     Method         `json:"method"`
	Primary    ganji.Element  `json:"primary"`
	Secondary  *ganji.Element `json:"secondary,omitempty"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
}

// Result is the merged recommendation.  Heesin supports the final element,
// Gisin harms it and Gusin feeds the harm.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Final           ganji.Element    `json:"final"`
	Heesin          *ganji.Element   `json:"heesin,omitempty"`
	Gisin           *ganji.Element   `json:"gisin,omitempty"`
	Gusin           *ganji.Element   `json:"gusin,omitempty"`
	Anchor          Method           `json:"anchor"`
	Agreement       Agreement        `json:"agreement"`
	Confidence      float64          `json:"confidence"`
	Reasoning       string           `json:"reasoning"`
}

// Input is what the decider reads.  Pattern is optional; without it the
// pattern, following and transformation methods are skipped.
type Input struct {
	Pillars  ganji.PillarSet
	Strength strength.Assessment
	Pattern  *gyeokguk.Result
}

// ─────────────────────────────────────────────────────────────────────────────
// Decider
// ─────────────────────────────────────────────────────────────────────────────

const (
	seasonalConfidence  = 0.80
	patternConfidence   = 0.75
	mediatingConfidence = 0.70

	balanceBase  = 0.60
	balanceRange = 0.30

	diseaseMinimum  = 4
	diseaseBase     = 0.70
	diseaseStep     = 0.05
	diseaseMaxConf  = 0.85
	mediatingMinCtl = 3
	mediatingMinDM  = 2
)

// Decider merges the methods under a priority.
type Decider struct {
	cat      *Catalog
	priority Priority
}

// NewDecider returns a Decider; a nil catalog selects DefaultCatalog.
func NewDecider(cat *Catalog, priority Priority) *Decider {
	if cat == nil {
		cat = DefaultCatalog()
	}
	if priority == "" {
		priority = StrengthFirst
	}
	return &Decider{cat: cat, priority: priority}
}

// Decide runs every applicable method and merges them.
func (d *Decider) Decide(in Input) Result {
	balance := d.strengthBalance(in)
	seasonal := d.seasonal(in)
	recs := []Recommendation{balance, seasonal}
	anchor := balance

	if r, ok := d.mediating(in); ok {
		recs = append(recs, r)
	}
	if r, ok := d.pattern(in); ok {
		recs = append(recs, r)
	}
	if r, ok := d.diseaseRemedy(in); ok {
		recs = append(recs, r)
	}
	if r, ok := d.following(in); ok {
		recs = append(recs, r)
		anchor = r
	}
	if r, ok := d.transformation(in); ok {
		recs = append(recs, r)
		anchor = r
	}

	res := Result{Recommendations: recs, Anchor: anchor.Method}
	res.Agreement, res.Final, res.Reasoning = d.merge(anchor, seasonal, recs)
	res.Confidence = res.Agreement.Confidence()

	heesin := res.Final.GeneratedBy()
	gisin := res.Final.ControlledBy()
	gusin := gisin.GeneratedBy()
	res.Heesin, res.Gisin, res.Gusin = &heesin, &gisin, &gusin
	return res
}

func (d *Decider) merge(anchor, seasonal Recommendation, recs []Recommendation) (Agreement, ganji.Element, string) {
	head := fmt.Sprintf("%s names %s, seasonal names %s", anchor.Method, anchor.Primary, seasonal.Primary)
	if anchor.Primary == seasonal.Primary {
		return FullAgree, anchor.Primary, head + ": full agreement"
	}
	anchorBacksSeasonal := anchor.Secondary != nil && *anchor.Secondary == seasonal.Primary
	seasonalBacksAnchor := seasonal.Secondary != nil && *seasonal.Secondary == anchor.Primary
	switch {
	case anchorBacksSeasonal && seasonalBacksAnchor:
		return PartialAgree, d.winner(anchor, seasonal, recs), head + ": each names the other as secondary"
	case seasonalBacksAnchor:
		return PartialAgree, anchor.Primary, head + fmt.Sprintf(": seasonal secondary backs %s", anchor.Primary)
	case anchorBacksSeasonal:
		return PartialAgree, seasonal.Primary, head + fmt.Sprintf(": %s secondary backs %s", anchor.Method, seasonal.Primary)
	}
	w := d.winner(anchor, seasonal, recs)
	return Disagree, w, head + fmt.Sprintf(": disagreement resolved %s to %s", d.priority, w)
}

func (d *Decider) winner(anchor, seasonal Recommendation, recs []Recommendation) ganji.Element {
	switch d.priority {
	case SeasonalFirst:
		return seasonal.Primary
	case HighestConfidence:
		best := anchor
		for _, r := range append([]Recommendation{seasonal}, recs...) {
			if r.Confidence > best.Confidence {
				best = r
			}
		}
		return best.Primary
	}
	return anchor.Primary
}

// ─────────────────────────────────────────────────────────────────────────────
// Methods
// ─────────────────────────────────────────────────────────────────────────────

func (d *Decider) strengthBalance(in Input) Recommendation {
	dm := in.Pillars.DayMaster().Element()
	conf := balanceBase + math.Min(1, math.Abs(in.Strength.TotalSupport-50)/50)*balanceRange
	if in.Strength.IsStrong {
		sec := dm.ControlledBy()
		return Recommendation{
			Method: MethodStrengthBalance, Primary: dm.Generates(), Secondary: &sec, Confidence: conf,
			Reasoning: fmt.Sprintf("strong %s day master (support %.1f) drains to %s and is restrained by %s", dm, in.Strength.TotalSupport, dm.Generates(), sec),
		}
	}
	sec := dm
	return Recommendation{
		Method: MethodStrengthBalance, Primary: dm.GeneratedBy(), Secondary: &sec, Confidence: conf,
		Reasoning: fmt.Sprintf("weak %s day master (support %.1f) is fed by %s and helped by %s", dm, in.Strength.TotalSupport, dm.GeneratedBy(), dm),
	}
}

func (d *Decider) seasonal(in Input) Recommendation {
	dm, month := in.Pillars.DayMaster(), in.Pillars.Month().Branch
	pair := d.cat.Seasonal(dm, month)
	return Recommendation{
		Method: MethodSeasonal, Primary: pair.Primary, Secondary: pair.Secondary, Confidence: seasonalConfidence,
		Reasoning: fmt.Sprintf("%s born in the %s month is balanced by %s", dm, month, pair.Primary),
	}
}

func (d *Decider) mediating(in Input) (Recommendation, bool) {
	dm := in.Pillars.DayMaster().Element()
	dist := ganji.DistributionOf(in.Pillars)
	ctl := dm.ControlledBy()
	mediator := ctl.Generates()
	if dist.Count(ctl) < mediatingMinCtl || dist.Count(dm) < mediatingMinDM || dist.Count(mediator) > 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		Method: MethodMediating, Primary: ctl.GeneratedBy(), Secondary: &mediator, Confidence: mediatingConfidence,
		Reasoning: fmt.Sprintf("%s (%d) presses %s (%d) with no %s to mediate", ctl, dist.Count(ctl), dm, dist.Count(dm), mediator),
	}, true
}

func (d *Decider) pattern(in Input) (Recommendation, bool) {
	if in.Pattern == nil || in.Pattern.Category != gyeokguk.CategoryStandard {
		return Recommendation{}, false
	}
	cp, ok := d.cat.Standard(in.Pattern.Pattern)
	if !ok {
		return Recommendation{}, false
	}
	dm := in.Pillars.DayMaster().Element()
	pair := cp.Elements(dm)
	return Recommendation{
		Method: MethodPattern, Primary: pair.Primary, Secondary: pair.Secondary, Confidence: patternConfidence,
		Reasoning: fmt.Sprintf("%s pattern used %s: %s (%s)", in.Pattern.Pattern, cp.Usage, cp.Primary, pair.Primary),
	}, true
}

func (d *Decider) diseaseRemedy(in Input) (Recommendation, bool) {
	dist := ganji.DistributionOf(in.Pillars)
	var disease ganji.Element
	found := 0
	for _, e := range ganji.Elements() {
		if dist.Count(e) >= diseaseMinimum {
			disease = e
			found++
		}
	}
	if found != 1 {
		return Recommendation{}, false
	}
	dm := in.Pillars.DayMaster().Element()
	remedy := disease.ControlledBy()
	if !in.Strength.IsStrong && (remedy == dm || remedy == dm.GeneratedBy()) {
		return Recommendation{}, false
	}
	n := dist.Count(disease)
	conf := math.Min(diseaseMaxConf, diseaseBase+diseaseStep*float64(n-diseaseMinimum))
	return Recommendation{
		Method: MethodDiseaseRemedy, Primary: remedy, Confidence: conf,
		Reasoning: fmt.Sprintf("%s appears %d times; %s restrains it", disease, n, remedy),
	}, true
}

func (d *Decider) following(in Input) (Recommendation, bool) {
	if in.Pattern == nil || in.Pattern.Category != gyeokguk.CategoryFollowingStrength {
		return Recommendation{}, false
	}
	cp, ok := d.cat.Following(in.Pattern.Pattern)
	if !ok {
		return Recommendation{}, false
	}
	pair := cp.Elements(in.Pillars.DayMaster().Element())
	return Recommendation{
		Method: MethodFollowing, Primary: pair.Primary, Secondary: pair.Secondary, Confidence: in.Pattern.Confidence,
		Reasoning: fmt.Sprintf("%s follows %s (%s)", in.Pattern.Pattern, cp.Primary, pair.Primary),
	}, true
}

func (d *Decider) transformation(in Input) (Recommendation, bool) {
	if in.Pattern == nil || in.Pattern.Category != gyeokguk.CategoryTransformation || in.Pattern.Element == nil {
		return Recommendation{}, false
	}
	result := *in.Pattern.Element
	return Recommendation{
		Method: MethodTransformation, Primary: result.GeneratedBy(), Secondary: &result, Confidence: in.Pattern.Confidence,
		Reasoning: fmt.Sprintf("%s transformation is fed by %s", result, result.GeneratedBy()),
	}, true
}

//Personal.AI order the ending
