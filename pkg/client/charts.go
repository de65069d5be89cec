package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// ChartsClient calls the chart endpoints.
type ChartsClient struct {
	client *Client
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

// ChartRequest is one birth to chart.  Timezone is "±HH:MM", a minute
// offset or an IANA zone name.
type ChartRequest struct {
	ID        string                 `json:"id,omitempty"`
	Calendar  string                 `json:"calendar,omitempty"`
	Year      int                    `json:"year"`
	Month     int                    `json:"month"`
	Day       int                    `json:"day"`
	Hour      int                    `json:"hour"`
	Minute    int                    `json:"minute"`
	Timezone  string                 `json:"timezone"`
	Latitude  *float64               `json:"latitude,omitempty"`
	Longitude *float64               `json:"longitude,omitempty"`
	Strength  *Strength              `json:"strength,omitempty"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

// Strength is a day-master strength assessment.
type Strength struct {
	IsStrong     bool           `json:"is_strong"`
	TotalSupport float64        `json:"total_support"`
	Breakdown    map[string]int `json:"breakdown"`
	Source       string         `json:"source,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Responses
// ─────────────────────────────────────────────────────────────────────────────

// Pillar is one stem/branch pair.
type Pillar struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

func (p Pillar) String() string { return p.Stem + p.Branch }

// Pillars is the four pillars of a chart.
type Pillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

func (p Pillars) String() string {
	return fmt.Sprintf("%s %s %s %s", p.Year, p.Month, p.Day, p.Hour)
}

// CalendarInfo is the calendar context of a chart.
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

// Pattern is the gyeokguk verdict.
type Pattern struct {
	Pattern    string  `json:"pattern"`
	Category   string  `json:"category"`
	TenGod     string  `json:"ten_god,omitempty"`
	Element    string  `json:"element,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Formation  string  `json:"formation,omitempty"`
}

// Recommendation is one yongshin method's answer.
type Recommendation struct {
	Method     string  `json:"method"`
	Primary    string  `json:"primary"`
	Secondary  string  `json:"secondary,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Yongshin is the merged balancing-element decision.
type Yongshin struct {
	Recommendations []Recommendation `json:"recommendations"`
	Final           string           `json:"final"`
	Heesin          string           `json:"heesin,omitempty"`
	Gisin           string           `json:"gisin,omitempty"`
	Gusin           string           `json:"gusin,omitempty"`
	Anchor          string           `json:"anchor"`
	Agreement       string           `json:"agreement"`
	Confidence      float64          `json:"confidence"`
	Reasoning       string           `json:"reasoning"`
}

// Chart is a computed chart.  Relations and Options stay raw; their shape
// follows the server's catalog.
type Chart struct {
	ID        string          `json:"id,omitempty"`
	Options   json.RawMessage `json:"options"`
	Calendar  CalendarInfo    `json:"calendar"`
	Pillars   Pillars         `json:"pillars"`
	Elements  map[string]int  `json:"elements"`
	Relations json.RawMessage `json:"relations"`
	Strength  Strength        `json:"strength"`
	Pattern   Pattern         `json:"pattern"`
	Yongshin  Yongshin        `json:"yongshin"`
}

// ItemError is the failure of one batch entry.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one batch entry in request order.
type BatchItem struct {
	Index int        `json:"index"`
	Chart *Chart     `json:"chart,omitempty"`
	Error *ItemError `json:"error,omitempty"`
}

// BatchResult is a batch run.
type BatchResult struct {
	ID        string      `json:"id"`
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Term is one solar-term crossing.
type Term struct {
	Name      string    `json:"name"`
	Longitude float64   `json:"longitude"`
	Jie       bool      `json:"jie"`
	Instant   time.Time `json:"instant"`
	Local     string    `json:"local"`
}

// SolarTerms is a year's term table.
type SolarTerms struct {
	Year                int       `json:"year"`
	Ephemeris           string    `json:"ephemeris"`
	Timezone            string    `json:"timezone"`
	Terms               []Term    `json:"terms"`
	PriorWinterSolstice time.Time `json:"prior_winter_solstice"`
	LunarNewYear        time.Time `json:"lunar_new_year"`
	LunarNewYearDate    string    `json:"lunar_new_year_date"`
}

// Thresholds are the following-pattern strength cut-offs.
type Thresholds struct {
	Strong float64 `json:"strong"`
	Weak   float64 `json:"weak"`
}

// Options is a resolved engine configuration.
type Options struct {
	Calendar struct {
		DayBoundary   string `json:"day_boundary"`
		YearBoundary  string `json:"year_boundary"`
		MonthBoundary string `json:"month_boundary"`
		TrueSolarTime struct {
			Enabled        bool `json:"enabled"`
			EquationOfTime bool `json:"equation_of_time"`
		} `json:"true_solar_time"`
		Ephemeris string `json:"ephemeris"`
	} `json:"calendar"`
	School     string     `json:"school"`
	Thresholds Thresholds `json:"thresholds"`
	Relation   struct {
		Banhap     bool   `json:"banhap"`
		Strictness string `json:"strictness"`
	} `json:"relation"`
	Priority string `json:"priority"`
}

// ComponentCheck is the readiness of one dependency.
type ComponentCheck struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Readiness is the readiness probe body.
type Readiness struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Calls
// ─────────────────────────────────────────────────────────────────────────────

// Compute charts one birth.
func (c *ChartsClient) Compute(ctx context.Context, req *ChartRequest) (*Chart, error) {
	var out Chart
	if err := c.client.post(ctx, APIPrefix+"/charts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Batch charts several births; entries fail independently.
func (c *ChartsClient) Batch(ctx context.Context, reqs []*ChartRequest) (*BatchResult, error) {
	body := struct {
		Charts []*ChartRequest `json:"charts"`
	}{reqs}
	var out BatchResult
	if err := c.client.post(ctx, APIPrefix+"/charts/batch", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SolarTerms fetches the term table of year.  Empty ephemeris and timezone
// use the server defaults.
func (c *ChartsClient) SolarTerms(ctx context.Context, year int, ephemeris, timezone string) (*SolarTerms, error) {
	q := url.Values{}
	if ephemeris != "" {
		q.Set("ephemeris", ephemeris)
	}
	if timezone != "" {
		q.Set("timezone", timezone)
	}
	path := fmt.Sprintf("%s/solar-terms/%d", APIPrefix, year)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out SolarTerms
	if err := c.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Defaults returns the server's resolved default options.
func (c *ChartsClient) Defaults(ctx context.Context) (*Options, error) {
	var out Options
	if err := c.client.get(ctx, APIPrefix+"/options", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveOptions previews the options a request patch would produce.
func (c *ChartsClient) ResolveOptions(ctx context.Context, patch map[string]interface{}) (*Options, error) {
	if patch == nil {
		patch = map[string]interface{}{}
	}
	var out Options
	if err := c.client.post(ctx, APIPrefix+"/options/resolve", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
