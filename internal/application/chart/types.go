// Package chart provides the application-level chart service: request
// validation, option resolution and the full pillar → relation → pattern →
// balancing-element pipeline.  HTTP and CLI adapters call into this package.
package chart

import (
	"time"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/internal/domain/strength"
	"github.com/turtacn/saju-engine/internal/domain/yongshin"
)

// Calendar systems accepted on a request.  Only the solar calendar is
// computed; lunar input is rejected.
const (
	CalendarSolar     = "solar"
	CalendarGregorian = "gregorian"
	CalendarLunar     = "lunar"
)

// ChartRequest is one birth to chart.
type ChartRequest struct {
	// ID is an optional caller reference echoed on the result.
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Calendar string `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	Year     int    `json:"year" yaml:"year"`
	Month    int    `json:"month" yaml:"month"`
	Day      int    `json:"day" yaml:"day"`
	Hour     int    `json:"hour" yaml:"hour"`
	Minute   int    `json:"minute" yaml:"minute"`
	// Timezone is "±HH:MM", a whole-minute offset such as "540", or an IANA
	// zone name.
	Timezone  string   `json:"timezone" yaml:"timezone"`
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	// Strength is an externally scored day-master assessment.  Without it the
	// following-strength phase is skipped and the balance method uses the
	// chart-only estimate.
	Strength *strength.Assessment `json:"strength,omitempty" yaml:"strength,omitempty"`
	// Options patches the engine defaults for this request only.
	Options map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
}

// Options is the resolved, typed engine configuration of one computation.
type Options struct {
	Policy     calendar.Policy     `json:"calendar"`
	School     gyeokguk.School     `json:"school"`
	Thresholds gyeokguk.Thresholds `json:"thresholds"`
	Relation   relation.Options    `json:"relation"`
	Priority   yongshin.Priority   `json:"priority"`
}

// CalendarInfo is the calendar context that produced the pillars.
type CalendarInfo struct {
	Timezone          string    `json:"timezone"`
	OffsetMinutes     int       `json:"offset_minutes"`
	Instant           time.Time `json:"instant"`
	SolarClock        time.Time `json:"solar_clock"`
	CorrectionMinutes float64   `json:"correction_minutes"`
	SolarLongitude    float64   `json:"solar_longitude"`
	MonthOrder        int       `json:"month_order"`
	PillarYear        int       `json:"pillar_year"`
	YearBoundary      time.Time `json:"year_boundary"`
}

// Chart is the full analysis of one birth.
type Chart struct {
	ID        string                    `json:"id,omitempty"`
	Options   Options                   `json:"options"`
	Calendar  CalendarInfo              `json:"calendar"`
	Pillars   ganji.PillarSet           `json:"pillars"`
	Elements  ganji.ElementDistribution `json:"elements"`
	Relations relation.Report           `json:"relations"`
	Strength  strength.Assessment       `json:"strength"`
	Pattern   gyeokguk.Result           `json:"pattern"`
	Yongshin  yongshin.Result           `json:"yongshin"`
}

// ItemError is the failure of one batch entry.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one entry of a batch result, in request order.
type BatchItem struct {
	Index int        `json:"index"`
	Chart *Chart     `json:"chart,omitempty"`
	Error *ItemError `json:"error,omitempty"`
}

// BatchResult collects a batch run.
type BatchResult struct {
	ID        string      `json:"id"`
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// SolarTermsRequest selects a year's term table.
type SolarTermsRequest struct {
	Year      int    `json:"year"`
	Ephemeris string `json:"ephemeris,omitempty"`
	// Timezone renders local instants; empty uses UTC.
	Timezone string `json:"timezone,omitempty"`
}

// TermView is one solar-term crossing.
type TermView struct {
	Name      string    `json:"name"`
	Longitude float64   `json:"longitude"`
	Jie       bool      `json:"jie"`
	Instant   time.Time `json:"instant"`
	Local     string    `json:"local"`
}

// SolarTermsResult is the rendered term table.
type SolarTermsResult struct {
	Year                int        `json:"year"`
	Ephemeris           string     `json:"ephemeris"`
	Timezone            string     `json:"timezone"`
	Terms               []TermView `json:"terms"`
	PriorWinterSolstice time.Time  `json:"prior_winter_solstice"`
	LunarNewYear        time.Time  `json:"lunar_new_year"`
	// LunarNewYearDate is the civil date of the lunar new year in Timezone.
	LunarNewYearDate string `json:"lunar_new_year_date"`
}

//Personal.AI order the ending
