// Package strength carries the day-master strength assessment consumed by the
// pattern and balancing-element stages, with a chart-only estimate for callers
// that have no external assessment.
package strength

import (
	"fmt"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// Counts tallies ten-god categories over a chart.
type Counts struct {
	Companion int `json:"companion" mapstructure:"companion"`
	Output    int `json:"output" mapstructure:"output"`
	Wealth    int `json:"wealth" mapstructure:"wealth"`
	Authority int `json:"authority" mapstructure:"authority"`
	Resource  int `json:"resource" mapstructure:"resource"`
}

// Of returns the count for category c.
func (c Counts) Of(cat ganji.Category) int {
	switch cat {
	case ganji.Companion:
		return c.Companion
	case ganji.Output:
		return c.Output
	case ganji.Wealth:
		return c.Wealth
	case ganji.Authority:
		return c.Authority
	case ganji.Resource:
		return c.Resource
	}
	return 0
}

func (c *Counts) add(cat ganji.Category, n int) {
	switch cat {
	case ganji.Companion:
		c.Companion += n
	case ganji.Output:
		c.Output += n
	case ganji.Wealth:
		c.Wealth += n
	case ganji.Authority:
		c.Authority += n
	case ganji.Resource:
		c.Resource += n
	}
}

// Total sums every category.
func (c Counts) Total() int {
	return c.Companion + c.Output + c.Wealth + c.Authority + c.Resource
}

// Support is companion plus resource.
func (c Counts) Support() int { return c.Companion + c.Resource }

func (c Counts) String() string {
	return fmt.Sprintf("companion=%d output=%d wealth=%d authority=%d resource=%d",
		c.Companion, c.Output, c.Wealth, c.Authority, c.Resource)
}

// CountCategories classifies the three non-day stems and the principal hidden
// stem of each branch against the day master.
func CountCategories(ps ganji.PillarSet) Counts {
	dm := ps.DayMaster()
	var c Counts
	for _, pos := range ganji.Positions() {
		p := ps.At(pos)
		if pos != ganji.DayPosition {
			c.add(ganji.TenGodOf(dm, p.Stem).Category(), 1)
		}
		c.add(ganji.TenGodOf(dm, p.Branch.PrincipalStem()).Category(), 1)
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Assessment
// ─────────────────────────────────────────────────────────────────────────────

// Source records where an assessment came from.
type Source string

const (
	SourceExternal Source = "external"
	SourceEstimate Source = "estimate"
)

// Assessment is a day-master strength verdict.  TotalSupport is on a 0-100
// scale; Breakdown is optional.
type Assessment struct {
	IsStrong     bool    `json:"is_strong" mapstructure:"is_strong"`
	TotalSupport float64 `json:"total_support" mapstructure:"total_support"`
	Breakdown    Counts  `json:"breakdown" mapstructure:"breakdown"`
	Source       Source  `json:"source" mapstructure:"source"`
}

// Validate checks the assessment's ranges.
func (a Assessment) Validate() error {
	if a.TotalSupport < 0 || a.TotalSupport > 100 {
		return errors.Newf(errors.ErrCodeInvalidOptions, "strength total support %.2f outside [0, 100]", a.TotalSupport)
	}
	b := a.Breakdown
	if b.Companion < 0 || b.Output < 0 || b.Wealth < 0 || b.Authority < 0 || b.Resource < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "strength breakdown counts must be non-negative")
	}
	return nil
}

// CategoriesFor returns the breakdown if one was supplied, otherwise the
// counts derived from ps.
func (a Assessment) CategoriesFor(ps ganji.PillarSet) Counts {
	if a.Breakdown.Total() > 0 {
		return a.Breakdown
	}
	return CountCategories(ps)
}

const (
	monthBranchWeight = 3.0
	branchWeight      = 1.5
	stemWeight        = 1.0

	// StrongThreshold is the estimate's strong/weak cut.
	StrongThreshold = 50.0
)

// Estimate scores the day master from the chart alone: the share of weighted
// support (companion and resource elements) across the three non-day stems
// and four branches, with the month branch weighted heaviest.
func Estimate(ps ganji.PillarSet) Assessment {
	dm := ps.DayMaster().Element()
	var support, total float64
	tally := func(e ganji.Element, w float64) {
		total += w
		switch ganji.CategoryOf(dm, e) {
		case ganji.Companion, ganji.Resource:
			support += w
		}
	}
	for _, pos := range ganji.Positions() {
		p := ps.At(pos)
		if pos != ganji.DayPosition {
			tally(p.Stem.Element(), stemWeight)
		}
		if pos == ganji.MonthPosition {
			tally(p.Branch.Element(), monthBranchWeight)
		} else {
			tally(p.Branch.Element(), branchWeight)
		}
	}
	score := 100 * support / total
	return Assessment{
		IsStrong:     score >= StrongThreshold,
		TotalSupport: score,
		Breakdown:    CountCategories(ps),
		Source:       SourceEstimate,
	}
}

//Personal.AI order the ending
