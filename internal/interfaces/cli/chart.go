package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/pkg/errors"
)

type chartOptions struct {
	id        string
	date      string
	clock     string
	timezone  string
	calendar  string
	latitude  float64
	longitude float64
	sets      []string
}

// NewChartCmd creates the chart command.
func NewChartCmd() *cobra.Command {
	opts := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute the Four Pillars chart of a birth",
		Example: `  saju chart --date 2024-02-10 --time 12:00 --tz +09:00
  saju chart --date 1990-07-15 --time 06:30 --tz Asia/Seoul --lon 126.98 --set true_solar_time.enabled=true
  saju chart --date 2024-02-10 --time 23:30 --tz +09:00 --set day_boundary=zi-split -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.id, "id", "", "reference echoed on the chart")
	f.StringVar(&opts.date, "date", "", "civil birth date (YYYY-MM-DD)")
	f.StringVar(&opts.clock, "time", "", "civil birth time (HH:MM)")
	f.StringVar(&opts.timezone, "tz", "UTC", "±HH:MM offset, minutes east of UTC, or an IANA zone")
	f.StringVar(&opts.calendar, "calendar", "", "input calendar (solar)")
	f.Float64Var(&opts.latitude, "lat", 0, "birth latitude in degrees")
	f.Float64Var(&opts.longitude, "lon", 0, "birth longitude in degrees east")
	f.StringArrayVar(&opts.sets, "set", nil, "engine option override key=value; dotted keys nest (repeatable)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func runChart(cmd *cobra.Command, opts *chartOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	req, err := buildChartRequest(cmd, opts)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	c, err := cliCtx.Service.Compute(ctx, req)
	if err != nil {
		return err
	}
	return PrintResult(cmd, chartView{chart: c, verbose: cliCtx.Verbose})
}

func buildChartRequest(cmd *cobra.Command, opts *chartOptions) (*chart.ChartRequest, error) {
	day, err := time.Parse("2006-01-02", opts.date)
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeInvalidBirthInput, "date %q is not YYYY-MM-DD", opts.date)
	}
	hour, minute, err := parseClock(opts.clock)
	if err != nil {
		return nil, err
	}
	patch, err := parseOptionPatch(opts.sets)
	if err != nil {
		return nil, err
	}

	req := &chart.ChartRequest{
		ID:       opts.id,
		Calendar: opts.calendar,
		Year:     day.Year(),
		Month:    int(day.Month()),
		Day:      day.Day(),
		Hour:     hour,
		Minute:   minute,
		Timezone: opts.timezone,
		Options:  patch,
	}
	if cmd.Flags().Changed("lat") {
		lat := opts.latitude
		req.Latitude = &lat
	}
	if cmd.Flags().Changed("lon") {
		lon := opts.longitude
		req.Longitude = &lon
	}
	return req, nil
}

// parseClock accepts HH:MM with a 24-hour clock.  Range checks are left to
// the service so both surfaces report the same errors.
func parseClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, errors.Newf(errors.ErrCodeInvalidBirthInput, "time %q is not HH:MM", s)
	}
	hour, err1 := strconv.Atoi(hh)
	minute, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil {
		return 0, 0, errors.Newf(errors.ErrCodeInvalidBirthInput, "time %q is not HH:MM", s)
	}
	return hour, minute, nil
}

// parseOptionPatch turns key=value pairs into a nested option patch.  Values
// that parse as booleans or numbers keep that type.
func parseOptionPatch(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	patch := map[string]interface{}{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidOptions, "option %q is not key=value", pair)
		}

		parts := strings.Split(key, ".")
		node := patch
		for _, p := range parts[:len(parts)-1] {
			next, exists := node[p]
			if !exists {
				child := map[string]interface{}{}
				node[p] = child
				node = child
				continue
			}
			child, isMap := next.(map[string]interface{})
			if !isMap {
				return nil, errors.Newf(errors.ErrCodeInvalidOptions, "option %q conflicts with a value set on %q", key, p)
			}
			node = child
		}
		leaf := parts[len(parts)-1]
		if _, isMap := node[leaf].(map[string]interface{}); isMap {
			return nil, errors.Newf(errors.ErrCodeInvalidOptions, "option %q conflicts with nested options", key)
		}
		node[leaf] = optionValue(strings.TrimSpace(raw))
	}
	return patch, nil
}

func optionValue(raw string) interface{} {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// ─────────────────────────────────────────────────────────────────────────────
// chartView
// ─────────────────────────────────────────────────────────────────────────────

type chartView struct {
	chart   *chart.Chart
	verbose bool
}

func (v chartView) JSONValue() interface{} { return v.chart }

func (v chartView) TableHeaders() []string {
	return []string{"POSITION", "PILLAR", "STEM", "BRANCH", "STEM ELEMENT", "BRANCH ELEMENT"}
}

func (v chartView) TableRows() [][]string {
	rows := make([][]string, 0, ganji.PositionCount)
	for _, pos := range ganji.Positions() {
		p := v.chart.Pillars.At(pos)
		rows = append(rows, []string{
			pos.String(),
			p.String(),
			p.Stem.String(),
			p.Branch.String(),
			p.Stem.Element().String(),
			p.Branch.Element().String(),
		})
	}
	return rows
}

func (v chartView) String() string {
	c := v.chart
	var sb strings.Builder
	line := func(label, format string, args ...interface{}) {
		fmt.Fprintf(&sb, "%-10s %s\n", label, fmt.Sprintf(format, args...))
	}

	if c.ID != "" {
		line("Chart", "%s", c.ID)
	}
	line("Pillars", "%s", c.Pillars.String())
	line("Instant", "%s (offset %+d min, %s)", c.Calendar.Instant.Format(time.RFC3339), c.Calendar.OffsetMinutes, c.Calendar.Timezone)
	if c.Calendar.CorrectionMinutes != 0 {
		line("Solar", "%s (%+.1f min)", c.Calendar.SolarClock.Format("2006-01-02 15:04"), c.Calendar.CorrectionMinutes)
	}
	line("Elements", "%s", formatElements(c.Elements))
	line("Strength", "%s, support %.1f (%s)", strongLabel(c.Strength.IsStrong), c.Strength.TotalSupport, c.Strength.Source)
	line("Pattern", "%s (%s, confidence %.2f)", c.Pattern.Pattern, c.Pattern.Category, c.Pattern.Confidence)
	line("Yongshin", "%s (anchor %s, %s, confidence %.2f)", c.Yongshin.Final, c.Yongshin.Anchor, c.Yongshin.Agreement, c.Yongshin.Confidence)
	line("Relations", "%d, total score %.1f", len(c.Relations.Relations), c.Relations.TotalScore)

	if v.verbose {
		for _, r := range c.Relations.Relations {
			fmt.Fprintf(&sb, "  %-18s %-14s %-12s %6.1f\n", r.Hit.Type, memberSymbols(r.Hit), r.Outcome, r.Score.Total)
		}
		if c.Pattern.Reasoning != "" {
			line("Reasoning", "%s", c.Pattern.Reasoning)
		}
		if c.Yongshin.Reasoning != "" {
			line("", "%s", c.Yongshin.Reasoning)
		}
	}
	return sb.String()
}

func formatElements(d ganji.ElementDistribution) string {
	parts := make([]string, 0, ganji.ElementCount)
	for _, e := range ganji.Elements() {
		parts = append(parts, fmt.Sprintf("%s %d", e, d.Count(e)))
	}
	return strings.Join(parts, ", ")
}

func memberSymbols(h relation.Hit) string {
	syms := make([]string, len(h.Members))
	for i, m := range h.Members {
		syms[i] = m.Symbol
	}
	return strings.Join(syms, "-")
}

func strongLabel(strong bool) string {
	if strong {
		return "strong"
	}
	return "weak"
}

//Personal.AI order the ending
