package calendar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/saju-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SolarTerm
// ─────────────────────────────────────────────────────────────────────────────

// SolarTerm indexes the 24 solar terms in civil-year order, starting from
// Xiaohan (285°) in early January and ending at Dongzhi (270°).
type SolarTerm int

const (
	Xiaohan SolarTerm = iota
	Dahan
	Lichun
	Yushui
	Jingzhe
	Chunfen
	Qingming
	Guyu
	Lixia
	Xiaoman
	Mangzhong
	Xiazhi
	Xiaoshu
	Dashu
	Liqiu
	Chushu
	Bailu
	Qiufen
	Hanlu
	Shuangjiang
	Lidong
	Xiaoxue
	Daxue
	Dongzhi
)

// SolarTermCount is the number of solar terms in a year.
const SolarTermCount = 24

var solarTermNames = [SolarTermCount]string{
	"Xiaohan", "Dahan", "Lichun", "Yushui", "Jingzhe", "Chunfen",
	"Qingming", "Guyu", "Lixia", "Xiaoman", "Mangzhong", "Xiazhi",
	"Xiaoshu", "Dashu", "Liqiu", "Chushu", "Bailu", "Qiufen",
	"Hanlu", "Shuangjiang", "Lidong", "Xiaoxue", "Daxue", "Dongzhi",
}

// roughGuess holds the (month, day) around which each term falls in the
// Gregorian calendar.  The bracket scan searches ±30 days from it.
var roughGuess = [SolarTermCount][2]int{
	{1, 5}, {1, 20}, {2, 4}, {2, 19}, {3, 6}, {3, 21},
	{4, 5}, {4, 20}, {5, 6}, {5, 21}, {6, 6}, {6, 21},
	{7, 7}, {7, 23}, {8, 8}, {8, 23}, {9, 8}, {9, 23},
	{10, 8}, {10, 23}, {11, 7}, {11, 22}, {12, 7}, {12, 22},
}

func (s SolarTerm) String() string {
	if s < Xiaohan || s > Dongzhi {
		return fmt.Sprintf("SolarTerm(%d)", int(s))
	}
	return solarTermNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s SolarTerm) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SolarTerm) UnmarshalText(text []byte) error {
	v, err := ParseSolarTerm(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSolarTerm resolves a term name case-insensitively.
func ParseSolarTerm(name string) (SolarTerm, error) {
	for i, n := range solarTermNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return SolarTerm(i), nil
		}
	}
	return 0, errors.Newf(errors.ErrCodeSolarTermNotFound, "unknown solar term %q", name)
}

// Longitude returns the apparent solar longitude at which the term begins.
func (s SolarTerm) Longitude() float64 {
	return normalizeDegrees(285 + 15*float64(s))
}

// IsJie reports whether the term is one of the 12 month boundaries.
func (s SolarTerm) IsJie() bool { return int(s)%2 == 0 }

// MonthOrderAt returns the month-order index (0 = Tiger month beginning at
// Lichun) of a solar longitude.
func MonthOrderAt(longitude float64) int {
	return int(math.Floor(normalizeDegrees(longitude-315) / 30))
}

// ─────────────────────────────────────────────────────────────────────────────
// TermTable
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MinSupportedYear and MaxSupportedYear bound the civil years accepted by
	// the calendar resolver (ΔT polynomials and the rough-guess table).
	MinSupportedYear = 1600
	MaxSupportedYear = 2400
)

// TermInstant is one resolved solar-term crossing.
type TermInstant struct {
	Term      SolarTerm `json:"term"`
	Longitude float64   `json:"longitude"`
	Instant   time.Time `json:"instant"`
}

// TermTable is the resolved solar calendar of one civil year.
type TermTable struct {
	Method EphemerisMethod `json:"method"`
	Year   int             `json:"year"`
	Terms  []TermInstant   `json:"terms"`
	// PriorWinterSolstice is the 270° crossing of Year−1.
	PriorWinterSolstice time.Time `json:"prior_winter_solstice"`
	// LunarNewYear is the instant of the second new moon after
	// PriorWinterSolstice.  Years with an intercalary month near the solstice
	// can place the civil lunar new year one lunation later; that case is not
	// corrected here.
	LunarNewYear time.Time `json:"lunar_new_year"`
}

// Instant returns the crossing instant of a term.
func (tt *TermTable) Instant(s SolarTerm) time.Time {
	return tt.Terms[s].Instant
}

// Lichun returns the 315° crossing that opens the solar year.
func (tt *TermTable) Lichun() time.Time { return tt.Terms[Lichun].Instant }

// Jie returns the 12 month-boundary terms in civil order.
func (tt *TermTable) Jie() []TermInstant {
	out := make([]TermInstant, 0, SolarTermCount/2)
	for _, ti := range tt.Terms {
		if ti.Term.IsJie() {
			out = append(out, ti)
		}
	}
	return out
}

// MonthOrder returns the month-order index in force at instant t, which must
// fall in the table's civil year.  Instants before Xiaohan belong to the Zi
// month that began at Daxue of the previous year.
func (tt *TermTable) MonthOrder(t time.Time) int {
	order := MonthOrderAt(Daxue.Longitude())
	for _, ti := range tt.Jie() {
		if t.Before(ti.Instant) {
			break
		}
		order = MonthOrderAt(ti.Longitude)
	}
	return order
}

// LunarNewYearDate returns the civil date of the lunar new year in a zone
// offsetMinutes east of UTC.
func (tt *TermTable) LunarNewYearDate(offsetMinutes int) (int, time.Month, int) {
	return tt.LunarNewYear.In(FixedZone(offsetMinutes)).Date()
}

// LunarNewYearBoundary returns local midnight of the lunar new year date.
func (tt *TermTable) LunarNewYearBoundary(offsetMinutes int) time.Time {
	y, m, d := tt.LunarNewYearDate(offsetMinutes)
	return time.Date(y, m, d, 0, 0, 0, 0, FixedZone(offsetMinutes)).UTC()
}

// FixedZone returns a location offsetMinutes east of UTC.
func FixedZone(offsetMinutes int) *time.Location {
	return time.FixedZone(FormatOffset(offsetMinutes), offsetMinutes*60)
}

// FormatOffset renders an offset as ±HH:MM.
func FormatOffset(offsetMinutes int) string {
	sign := '+'
	if offsetMinutes < 0 {
		sign = '-'
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolver
// ─────────────────────────────────────────────────────────────────────────────

const (
	scanHalfWidthDays = 30
	maxBisections     = 64
	rootToleranceDays = 1.0 / secondsPerDay
)

// Resolver root-finds solar-term crossings with a single ephemeris.
type Resolver struct {
	eph Ephemeris
}

// NewResolver binds a resolver to an ephemeris.
func NewResolver(eph Ephemeris) *Resolver {
	return &Resolver{eph: eph}
}

// Method returns the ephemeris method of the resolver.
func (r *Resolver) Method() EphemerisMethod { return r.eph.Method() }

// Ephemeris returns the underlying ephemeris.
func (r *Resolver) Ephemeris() Ephemeris { return r.eph }

// SolarTermInstant returns the UTC instant in the given civil year at which
// the apparent solar longitude crosses target degrees.
func (r *Resolver) SolarTermInstant(year int, target float64) (time.Time, error) {
	jd, err := r.crossingJD(year, target)
	if err != nil {
		return time.Time{}, err
	}
	return TimeFromJulianDate(jd), nil
}

func (r *Resolver) crossingJD(year int, target float64) (float64, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, errors.Newf(errors.ErrCodeRootNotBracketed, "invalid target longitude %v", target)
	}
	target = normalizeDegrees(target)

	// Nearest tabulated term, shifted by the residual at ~1°/day.
	rel := normalizeDegrees(target - 285)
	idx := int(math.Round(rel/15)) % SolarTermCount
	residual := signedDifference(target, SolarTerm(idx).Longitude())
	g := roughGuess[idx]
	guess := float64(JulianDayNumber(year, time.Month(g[0]), g[1])) - 0.5 + residual

	f := func(jd float64) float64 {
		return signedDifference(r.eph.longitudeJD(jd), target)
	}

	lo := guess - scanHalfWidthDays
	flo := f(lo)
	for step := 0; step < 2*scanHalfWidthDays; step++ {
		hi := lo + 1
		fhi := f(hi)
		if flo == 0 {
			return lo, nil
		}
		if flo < 0 && fhi >= 0 {
			return r.bisect(f, lo, hi), nil
		}
		lo, flo = hi, fhi
	}
	return 0, errors.Newf(errors.ErrCodeRootNotBracketed,
		"no crossing of %.4f° within ±%d days of %04d-%02d-%02d (%s)",
		target, scanHalfWidthDays, year, g[0], g[1], r.eph.Method())
}

func (r *Resolver) bisect(f func(float64) float64, lo, hi float64) float64 {
	for i := 0; i < maxBisections && hi-lo > rootToleranceDays; i++ {
		mid := (lo + hi) / 2
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// Table resolves all 24 terms of a civil year plus its lunar new year.
func (r *Resolver) Table(year int) (*TermTable, error) {
	if year < MinSupportedYear-1 || year > MaxSupportedYear+1 {
		return nil, errors.Newf(errors.ErrCodeYearOutOfRange,
			"year %d outside supported range %d-%d", year, MinSupportedYear, MaxSupportedYear)
	}

	tt := &TermTable{
		Method: r.eph.Method(),
		Year:   year,
		Terms:  make([]TermInstant, SolarTermCount),
	}
	for i := 0; i < SolarTermCount; i++ {
		s := SolarTerm(i)
		jd, err := r.crossingJD(year, s.Longitude())
		if err != nil {
			return nil, err
		}
		tt.Terms[i] = TermInstant{Term: s, Longitude: s.Longitude(), Instant: TimeFromJulianDate(jd)}
	}

	solstice, err := r.crossingJD(year-1, Dongzhi.Longitude())
	if err != nil {
		return nil, err
	}
	tt.PriorWinterSolstice = TimeFromJulianDate(solstice)
	k := firstNewMoonIndex(solstice)
	tt.LunarNewYear = TimeFromJulianDate(newMoonUT(k + 1))
	return tt, nil
}

//Personal.AI order the ending
