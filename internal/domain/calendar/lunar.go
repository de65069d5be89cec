package calendar

import (
	"math"
	"time"
)

const (
	synodicMonth   = 29.530588861
	newMoonEpochJD = 2451550.09766
)

// newMoonJDE returns the true new moon of lunation k (k = 0 is the new moon
// of 2000-01-06) on the TT scale, without planetary arguments.
func newMoonJDE(k int) float64 {
	kf := float64(k)
	T := kf / 1236.85
	T2, T3, T4 := T*T, T*T*T, T*T*T*T

	jde := newMoonEpochJD + synodicMonth*kf + 0.00015437*T2 - 0.000000150*T3 + 0.00000000073*T4

	E := 1 - 0.002516*T - 0.0000074*T2
	M := deg2rad(2.5534 + 29.10535670*kf - 0.0000014*T2 - 0.00000011*T3)
	Mp := deg2rad(201.5643 + 385.81693528*kf + 0.0107582*T2 + 0.00001238*T3 - 0.000000058*T4)
	F := deg2rad(160.7108 + 390.67050284*kf - 0.0016118*T2 - 0.00000227*T3 + 0.000000011*T4)
	O := deg2rad(124.7746 - 1.56375588*kf + 0.0020672*T2 + 0.00000215*T3)

	sin := math.Sin
	jde += -0.40720*sin(Mp) +
		0.17241*E*sin(M) +
		0.01608*sin(2*Mp) +
		0.01039*sin(2*F) +
		0.00739*E*sin(Mp-M) -
		0.00514*E*sin(Mp+M) +
		0.00208*E*E*sin(2*M) -
		0.00111*sin(Mp-2*F) -
		0.00057*sin(Mp+2*F) +
		0.00056*E*sin(2*Mp+M) -
		0.00042*sin(3*Mp) +
		0.00042*E*sin(M+2*F) +
		0.00038*E*sin(M-2*F) -
		0.00024*E*sin(2*Mp-M) -
		0.00017*sin(O) -
		0.00007*sin(Mp+2*M) +
		0.00004*sin(2*Mp-2*F) +
		0.00004*sin(3*M) +
		0.00003*sin(Mp+M-2*F) +
		0.00003*sin(2*Mp+2*F) -
		0.00003*sin(Mp+M+2*F) +
		0.00003*sin(Mp-M+2*F) -
		0.00002*sin(Mp-M-2*F) -
		0.00002*sin(3*Mp+M) +
		0.00002*sin(4*Mp)
	return jde
}

// newMoonUT is newMoonJDE shifted to the UT scale.
func newMoonUT(k int) float64 {
	jde := newMoonJDE(k)
	return jde - DeltaT(decimalYear(jde))/secondsPerDay
}

// firstNewMoonIndex returns the lunation index of the first new moon at or
// after a UT Julian date.
func firstNewMoonIndex(jdUT float64) int {
	k := int(math.Floor((jdUT - newMoonEpochJD) / synodicMonth))
	for newMoonUT(k) < jdUT {
		k++
	}
	for newMoonUT(k-1) >= jdUT {
		k--
	}
	return k
}

// NewMoonAtOrAfter returns the first true new moon at or after t.
func NewMoonAtOrAfter(t time.Time) time.Time {
	return TimeFromJulianDate(newMoonUT(firstNewMoonIndex(JulianDate(t))))
}

//Personal.AI order the ending
