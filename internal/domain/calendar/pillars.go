package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Boundary policies
// ─────────────────────────────────────────────────────────────────────────────

// DayBoundary decides when the day label changes.
type DayBoundary string

const (
	DayMidnight DayBoundary = "midnight"
	// DayZiSplit advances the day label at 23:00, the start of the Zi hour.
	DayZiSplit DayBoundary = "zi-split"
)

// YearBoundary decides when the year pillar changes.
type YearBoundary string

const (
	YearCalendar     YearBoundary = "calendar"
	YearLichun       YearBoundary = "lichun"
	YearLunarNewYear YearBoundary = "lunar-new-year"
)

// MonthBoundary decides how the month order is resolved.
type MonthBoundary string

const (
	MonthCalendar  MonthBoundary = "calendar-month"
	MonthSolarTerm MonthBoundary = "solar-term"
)

// Policy bundles every boundary decision of the pillar builder.
type Policy struct {
	Day           DayBoundary     `json:"day_boundary" mapstructure:"day_boundary"`
	Year          YearBoundary    `json:"year_boundary" mapstructure:"year_boundary"`
	Month         MonthBoundary   `json:"month_boundary" mapstructure:"month_boundary"`
	TrueSolarTime TrueSolarTime   `json:"true_solar_time" mapstructure:"true_solar_time"`
	Ephemeris     EphemerisMethod `json:"ephemeris" mapstructure:"ephemeris"`
}

// DefaultPolicy is the conventional reckoning: midnight days, Lichun years,
// solar-term months, no true-solar-time shift, VSOP87.
func DefaultPolicy() Policy {
	return Policy{
		Day:       DayMidnight,
		Year:      YearLichun,
		Month:     MonthSolarTerm,
		Ephemeris: MethodVSOP87,
	}
}

// Validate rejects unknown policy values.
func (p Policy) Validate() error {
	switch p.Day {
	case DayMidnight, DayZiSplit:
	default:
		return errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown day boundary %q", p.Day)
	}
	switch p.Year {
	case YearCalendar, YearLichun, YearLunarNewYear:
	default:
		return errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown year boundary %q", p.Year)
	}
	switch p.Month {
	case MonthCalendar, MonthSolarTerm:
	default:
		return errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown month boundary %q", p.Month)
	}
	if _, err := ParseEphemerisMethod(string(p.Ephemeris)); err != nil {
		return err
	}
	return nil
}

// needsTable reports whether the policy consults the solar-term table.
func (p Policy) needsTable() bool {
	return p.Year != YearCalendar || p.Month == MonthSolarTerm
}

// ─────────────────────────────────────────────────────────────────────────────
// Civil input
// ─────────────────────────────────────────────────────────────────────────────

// CivilTime is a wall-clock reading without zone information.
type CivilTime struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`
}

func (c CivilTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d", c.Year, int(c.Month), c.Day, c.Hour, c.Minute)
}

// In places the reading in a zone offsetMinutes east of UTC.
func (c CivilTime) In(offsetMinutes int) time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, 0, 0, FixedZone(offsetMinutes))
}

// Validate checks field ranges, including the day-of-month.
func (c CivilTime) Validate() error {
	if c.Year < MinSupportedYear || c.Year > MaxSupportedYear {
		return errors.Newf(errors.ErrCodeYearOutOfRange,
			"year %d outside supported range %d-%d", c.Year, MinSupportedYear, MaxSupportedYear)
	}
	if c.Month < time.January || c.Month > time.December {
		return errors.InvalidInput(fmt.Sprintf("month %d out of range 1-12", int(c.Month)))
	}
	if c.Day < 1 || c.Day > DaysIn(c.Year, c.Month) {
		return errors.InvalidInput(fmt.Sprintf("day %d out of range for %04d-%02d", c.Day, c.Year, int(c.Month)))
	}
	if c.Hour < 0 || c.Hour > 23 {
		return errors.InvalidInput(fmt.Sprintf("hour %d out of range 0-23", c.Hour))
	}
	if c.Minute < 0 || c.Minute > 59 {
		return errors.InvalidInput(fmt.Sprintf("minute %d out of range 0-59", c.Minute))
	}
	return nil
}

// DaysIn returns the number of days of a Gregorian month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ─────────────────────────────────────────────────────────────────────────────
// Builder
// ─────────────────────────────────────────────────────────────────────────────

// BuildInput is everything the pillar builder needs for one chart.
type BuildInput struct {
	Local         CivilTime
	OffsetMinutes int
	Location      *Location
	Policy        Policy
}

// BuildResult carries the pillars and the intermediate calendar values that
// produced them.
type BuildResult struct {
	Pillars ganji.PillarSet `json:"pillars"`
	// Instant is the birth moment in UTC.
	Instant time.Time `json:"instant"`
	// SolarClock is the local clock reading after the true-solar-time shift;
	// it classifies the day and hour pillars.
	SolarClock        time.Time `json:"solar_clock"`
	CorrectionMinutes float64   `json:"correction_minutes"`
	SolarLongitude    float64   `json:"solar_longitude"`
	MonthOrder        int       `json:"month_order"`
	// PillarYear is the year whose sexagenary label the year pillar carries.
	PillarYear int `json:"pillar_year"`
	// YearBoundary is the resolved start of the nominal civil year under the
	// year policy.
	YearBoundary time.Time `json:"year_boundary"`
}

// Builder assembles the four pillars from a civil reading.
type Builder struct {
	cache *SolarTermCache
}

// NewBuilder returns a Builder that reads term tables through cache.
func NewBuilder(cache *SolarTermCache) *Builder {
	if cache == nil {
		cache = NewSolarTermCache()
	}
	return &Builder{cache: cache}
}

// Cache returns the builder's term-table cache.
func (b *Builder) Cache() *SolarTermCache { return b.cache }

// Build computes the pillar set for one input.
func (b *Builder) Build(ctx context.Context, in BuildInput) (*BuildResult, error) {
	if err := in.Local.Validate(); err != nil {
		return nil, err
	}
	if err := in.Policy.Validate(); err != nil {
		return nil, err
	}
	method, _ := ParseEphemerisMethod(string(in.Policy.Ephemeris))

	local := in.Local.In(in.OffsetMinutes)
	instant := local.UTC()
	correction := in.Policy.TrueSolarTime.CorrectionMinutes(local, in.OffsetMinutes, in.Location)
	solar := in.Policy.TrueSolarTime.Apply(local, in.OffsetMinutes, in.Location)

	res := &BuildResult{
		Instant:           instant,
		SolarClock:        solar,
		CorrectionMinutes: correction,
	}

	var table *TermTable
	if in.Policy.needsTable() {
		t, err := b.cache.Table(ctx, method, in.Local.Year)
		if err != nil {
			return nil, err
		}
		table = t
	}
	r, err := b.cache.Resolver(method)
	if err != nil {
		return nil, err
	}
	res.SolarLongitude = r.Ephemeris().ApparentSolarLongitude(instant)

	// Year.
	year := in.Local.Year
	switch in.Policy.Year {
	case YearCalendar:
		res.YearBoundary = time.Date(year, time.January, 1, 0, 0, 0, 0, FixedZone(in.OffsetMinutes)).UTC()
	case YearLichun:
		res.YearBoundary = table.Lichun()
	case YearLunarNewYear:
		res.YearBoundary = table.LunarNewYearBoundary(in.OffsetMinutes)
	}
	if instant.Before(res.YearBoundary) {
		year--
	}
	res.PillarYear = year
	yearPillar := YearPillar(year)

	// Month.
	switch in.Policy.Month {
	case MonthSolarTerm:
		res.MonthOrder = table.MonthOrder(instant)
	case MonthCalendar:
		res.MonthOrder = CalendarMonthOrder(in.Local.Month)
	}
	monthPillar := MonthPillar(yearPillar.Stem, res.MonthOrder)

	// Day and hour from the shifted clock.
	dy, dm, dd := solar.Date()
	hour := solar.Hour()
	if in.Policy.Day == DayZiSplit && hour == 23 {
		next := time.Date(dy, dm, dd+1, 0, 0, 0, 0, time.UTC)
		dy, dm, dd = next.Date()
	}
	dayPillar := DayPillar(dy, dm, dd)
	hourPillar := HourPillar(dayPillar.Stem, hour)

	res.Pillars = ganji.NewPillarSet(yearPillar, monthPillar, dayPillar, hourPillar)
	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Pillar formulas
// ─────────────────────────────────────────────────────────────────────────────

// YearPillar returns the sexagenary pillar of a (boundary-adjusted) year.
func YearPillar(year int) ganji.Pillar {
	return ganji.PillarFromIndex(year - 4)
}

// DayIndex returns the sexagenary day index of a civil date.
func DayIndex(year int, month time.Month, day int) int {
	i := (JulianDayNumber(year, month, day) + 49) % 60
	if i < 0 {
		i += 60
	}
	return i
}

// DayPillar returns the day pillar of a civil date.
func DayPillar(year int, month time.Month, day int) ganji.Pillar {
	return ganji.PillarFromIndex(DayIndex(year, month, day))
}

// HourBranch maps a clock hour to its two-hour branch; 23:00 opens Zi.
func HourBranch(hour int) ganji.Branch {
	if hour == 23 {
		return ganji.Zi
	}
	return ganji.BranchAt((hour + 1) / 2)
}

// HourPillar couples the hour branch with the day stem.
func HourPillar(dayStem ganji.Stem, hour int) ganji.Pillar {
	b := HourBranch(hour)
	s := ganji.StemAt((int(dayStem)%5)*2 + int(b))
	return ganji.Pillar{Stem: s, Branch: b}
}

// CalendarMonthOrder maps a Gregorian month to a month order, February being
// the Tiger month.
func CalendarMonthOrder(m time.Month) int {
	return (int(m) - 2 + 12) % 12
}

// MonthPillar couples a month order with the year stem.
func MonthPillar(yearStem ganji.Stem, order int) ganji.Pillar {
	s := ganji.StemAt((int(yearStem)%5)*2 + 2 + order)
	b := ganji.BranchAt(2 + order)
	return ganji.Pillar{Stem: s, Branch: b}
}

// ParseDayBoundary resolves a day-boundary name.
func ParseDayBoundary(s string) (DayBoundary, error) {
	v := DayBoundary(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case DayMidnight, DayZiSplit:
		return v, nil
	}
	return "", errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown day boundary %q", s)
}

// ParseYearBoundary resolves a year-boundary name.
func ParseYearBoundary(s string) (YearBoundary, error) {
	v := YearBoundary(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case YearCalendar, YearLichun, YearLunarNewYear:
		return v, nil
	}
	return "", errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown year boundary %q", s)
}

// ParseMonthBoundary resolves a month-boundary name.
func ParseMonthBoundary(s string) (MonthBoundary, error) {
	v := MonthBoundary(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case MonthCalendar, MonthSolarTerm:
		return v, nil
	}
	return "", errors.Newf(errors.ErrCodeBoundaryPolicy, "unknown month boundary %q", s)
}

//Personal.AI order the ending
