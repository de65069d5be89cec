package calendar

import (
	"math"
	"time"
)

// Location is a geographic position in decimal degrees (east and north
// positive).
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TrueSolarTime configures the local-clock correction applied before day and
// hour classification.
type TrueSolarTime struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// EquationOfTime adds the NOAA equation-of-time term on top of the
	// longitude correction.
	EquationOfTime bool `json:"equation_of_time" mapstructure:"equation_of_time"`
}

// EquationOfTime returns apparent minus mean solar time in minutes for a
// local clock reading, using the NOAA fractional-year approximation.
func EquationOfTime(local time.Time) float64 {
	daysInYear := 365.0
	if isLeap(local.Year()) {
		daysInYear = 366
	}
	hour := float64(local.Hour()) + float64(local.Minute())/60
	gamma := 2 * math.Pi / daysInYear * (float64(local.YearDay()-1) + (hour-12)/24)
	return 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))
}

// LongitudeCorrection returns 4 minutes per degree between the location and
// the standard meridian of a zone offsetMinutes east of UTC.
func LongitudeCorrection(longitude float64, offsetMinutes int) float64 {
	meridian := float64(offsetMinutes) / 4
	return 4 * (longitude - meridian)
}

// CorrectionMinutes returns the total true-solar-time shift for a local clock
// reading.  A disabled config or a missing location yields zero.
func (ts TrueSolarTime) CorrectionMinutes(local time.Time, offsetMinutes int, loc *Location) float64 {
	if !ts.Enabled || loc == nil {
		return 0
	}
	total := LongitudeCorrection(loc.Longitude, offsetMinutes)
	if ts.EquationOfTime {
		total += EquationOfTime(local)
	}
	return total
}

// Apply shifts a local clock reading by the correction, to the nearest second.
func (ts TrueSolarTime) Apply(local time.Time, offsetMinutes int, loc *Location) time.Time {
	m := ts.CorrectionMinutes(local, offsetMinutes, loc)
	if m == 0 {
		return local
	}
	return local.Add(time.Duration(math.Round(m*60)) * time.Second)
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

//Personal.AI order the ending
