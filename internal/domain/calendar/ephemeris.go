// Package calendar resolves civil instants against the astronomical calendar:
// apparent solar longitude, the 24 solar terms, the lunar new year and the
// four pillars derived from them.
package calendar

import (
	"math"
	"strings"
	"time"

	"github.com/turtacn/saju-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Julian dates
// ─────────────────────────────────────────────────────────────────────────────

const (
	// unixEpochJD is the Julian date of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5
	// j2000 is the Julian date of 2000-01-01T12:00:00 TT.
	j2000 = 2451545.0

	secondsPerDay = 86400.0
)

// JulianDate converts a UTC instant to a Julian date on the UT scale.
// Seconds and nanoseconds are taken apart; UnixNano overflows outside
// 1678-2262.
func JulianDate(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + sec/secondsPerDay
}

// TimeFromJulianDate is the inverse of JulianDate, rounded to the millisecond
// (the resolution a float64 Julian date carries in this era).
func TimeFromJulianDate(jd float64) time.Time {
	sec := (jd - unixEpochJD) * secondsPerDay
	whole := math.Floor(sec)
	nsec := math.Round((sec-whole)*1e3) * 1e6
	return time.Unix(int64(whole), int64(nsec)).UTC()
}

// JulianDayNumber returns the integer day number of a proleptic Gregorian
// civil date (noon-based; 2000-01-01 is 2451545).
func JulianDayNumber(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// decimalYear approximates the calendar year of a Julian date for ΔT lookup.
func decimalYear(jd float64) float64 {
	return 2000.0 + (jd-j2000)/365.25
}

// ─────────────────────────────────────────────────────────────────────────────
// ΔT
// ─────────────────────────────────────────────────────────────────────────────

// DeltaT returns TT − UT in seconds for a decimal year, using the
// Espenak–Meeus piecewise polynomials.
func DeltaT(y float64) float64 {
	switch {
	case y < 1500:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	case y < 1600:
		u := (y - 1000) / 100
		return 1574.2 - 556.01*u + 71.23472*u*u + 0.319781*pow(u, 3) -
			0.8503463*pow(u, 4) - 0.005050998*pow(u, 5) + 0.0083572073*pow(u, 6)
	case y < 1700:
		t := y - 1600
		return 120 - 0.9808*t - 0.01532*t*t + pow(t, 3)/7129
	case y < 1800:
		t := y - 1700
		return 8.83 + 0.1603*t - 0.0059285*t*t + 0.00013336*pow(t, 3) - pow(t, 4)/1174000
	case y < 1860:
		t := y - 1800
		return 13.72 - 0.332447*t + 0.0068612*t*t + 0.0041116*pow(t, 3) -
			0.00037436*pow(t, 4) + 0.0000121272*pow(t, 5) -
			0.0000001699*pow(t, 6) + 0.000000000875*pow(t, 7)
	case y < 1900:
		t := y - 1860
		return 7.62 + 0.5737*t - 0.251754*t*t + 0.01680668*pow(t, 3) -
			0.0004473624*pow(t, 4) + pow(t, 5)/233174
	case y < 1920:
		t := y - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*pow(t, 3) - 0.000197*pow(t, 4)
	case y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*pow(t, 3)
	case y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + pow(t, 3)/2547
	case y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - pow(t, 3)/718
	case y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*pow(t, 3) +
			0.000651814*pow(t, 4) + 0.00002373599*pow(t, 5)
	case y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// ephemerisJD converts a UT Julian date to the uniform TT scale.
func ephemerisJD(jdUT float64) float64 {
	return jdUT + DeltaT(decimalYear(jdUT))/secondsPerDay
}

// ─────────────────────────────────────────────────────────────────────────────
// Ephemeris
// ─────────────────────────────────────────────────────────────────────────────

// EphemerisMethod names a solar longitude algorithm.
type EphemerisMethod string

const (
	// MethodVSOP87 sums the truncated VSOP87 Earth series (L0–L4).
	MethodVSOP87 EphemerisMethod = "vsop87"
	// MethodLowPrecision uses the mean-anomaly / equation-of-centre formula.
	MethodLowPrecision EphemerisMethod = "low-precision"
)

// ParseEphemerisMethod resolves a method name; the empty string selects VSOP87.
func ParseEphemerisMethod(s string) (EphemerisMethod, error) {
	switch EphemerisMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodVSOP87:
		return MethodVSOP87, nil
	case MethodLowPrecision:
		return MethodLowPrecision, nil
	}
	return "", errors.Newf(errors.ErrCodeEphemerisMethod, "unknown ephemeris method %q", s)
}

// Ephemeris computes the Sun's apparent geocentric ecliptic longitude.
type Ephemeris interface {
	// Method identifies the algorithm; it is part of every cache key.
	Method() EphemerisMethod
	// ApparentSolarLongitude returns degrees in [0,360) for a UTC instant.
	ApparentSolarLongitude(t time.Time) float64
	// longitudeJD is the same computation keyed by a UT Julian date.
	longitudeJD(jdUT float64) float64
}

// NewEphemeris returns the ephemeris for a method.
func NewEphemeris(method EphemerisMethod) (Ephemeris, error) {
	switch method {
	case MethodVSOP87, "":
		return vsop87{}, nil
	case MethodLowPrecision:
		return lowPrecision{}, nil
	}
	return nil, errors.Newf(errors.ErrCodeEphemerisMethod, "unknown ephemeris method %q", method)
}

// ── VSOP87 ───────────────────────────────────────────────────────────────────

type vsop87 struct{}

func (vsop87) Method() EphemerisMethod { return MethodVSOP87 }

func (e vsop87) ApparentSolarLongitude(t time.Time) float64 {
	return e.longitudeJD(JulianDate(t))
}

func (vsop87) longitudeJD(jdUT float64) float64 {
	jde := ephemerisJD(jdUT)
	tau := (jde - j2000) / 365250
	T := tau * 10

	L := sumOrders(earthL, tau)
	R := sumOrders(earthR, tau)

	// Geometric geocentric longitude of the Sun.
	sun := normalizeDegrees(rad2deg(L) + 180)
	// FK5 frame correction.
	sun += -0.09033 / 3600
	// Nutation in longitude and annual aberration.
	sun += nutationLongitude(T)
	sun += -20.4898 / 3600 / R

	return normalizeDegrees(sun)
}

// ── low precision ────────────────────────────────────────────────────────────

type lowPrecision struct{}

func (lowPrecision) Method() EphemerisMethod { return MethodLowPrecision }

func (e lowPrecision) ApparentSolarLongitude(t time.Time) float64 {
	return e.longitudeJD(JulianDate(t))
}

func (lowPrecision) longitudeJD(jdUT float64) float64 {
	T := (ephemerisJD(jdUT) - j2000) / 36525
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := deg2rad(357.52911 + 35999.05029*T - 0.0001537*T*T)
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)
	omega := deg2rad(125.04 - 1934.136*T)
	return normalizeDegrees(L0 + C - 0.00569 - 0.00478*math.Sin(omega))
}

// nutationLongitude returns Δψ in degrees (four dominant terms).
func nutationLongitude(T float64) float64 {
	omega := deg2rad(125.04452 - 1934.136261*T)
	ls := deg2rad(280.4665 + 36000.7698*T)
	lm := deg2rad(218.3165 + 481267.8813*T)
	arcsec := -17.20*math.Sin(omega) - 1.32*math.Sin(2*ls) - 0.23*math.Sin(2*lm) + 0.21*math.Sin(2*omega)
	return arcsec / 3600
}

// ─────────────────────────────────────────────────────────────────────────────
// angle helpers
// ─────────────────────────────────────────────────────────────────────────────

func pow(x float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= x
	}
	return r
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// normalizeDegrees wraps an angle into [0,360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// signedDifference wraps a−b into (−180,180].
func signedDifference(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d <= -180 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

//Personal.AI order the ending
