package chart

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // IANA zones without a system database

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// maxOffsetMinutes bounds fixed offsets to ±14:00.
const maxOffsetMinutes = 14 * 60

// ParseZone resolves a timezone string: "Z" or "UTC", a signed "±HH:MM" or
// "±HHMM" offset, a whole-minute integer offset, or an IANA zone name.
func ParseZone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, errors.New(errors.ErrCodeTimezoneInvalid, "timezone is required")
	case strings.EqualFold(s, "z"), strings.EqualFold(s, "utc"):
		return time.UTC, nil
	case s[0] == '+' || s[0] == '-':
		if m, err := parseClockOffset(s); err == nil {
			return calendar.FixedZone(m), nil
		}
		if m, err := strconv.Atoi(s); err == nil {
			return minutesZone(m, s)
		}
		return nil, errors.Newf(errors.ErrCodeTimezoneInvalid, "malformed offset %q", s)
	case s[0] >= '0' && s[0] <= '9':
		m, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeTimezoneInvalid, "malformed offset %q", s)
		}
		return minutesZone(m, s)
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimezoneInvalid, fmt.Sprintf("unknown timezone %q", s))
	}
	return loc, nil
}

func minutesZone(m int, raw string) (*time.Location, error) {
	if m < -maxOffsetMinutes || m > maxOffsetMinutes {
		return nil, errors.Newf(errors.ErrCodeTimezoneInvalid, "offset %q outside ±14:00", raw)
	}
	return calendar.FixedZone(m), nil
}

// parseClockOffset accepts ±HH:MM and ±HHMM.
func parseClockOffset(s string) (int, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := strings.ReplaceAll(s[1:], ":", "")
	if len(body) != 4 || (strings.Contains(s, ":") && len(s) != 6) {
		return 0, fmt.Errorf("not a clock offset")
	}
	h, err := strconv.Atoi(body[:2])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(body[2:])
	if err != nil {
		return 0, err
	}
	if m > 59 {
		return 0, fmt.Errorf("minutes out of range")
	}
	total := h*60 + m
	if total > maxOffsetMinutes {
		return 0, fmt.Errorf("offset out of range")
	}
	return sign * total, nil
}

// OffsetAt returns the UTC offset in minutes that loc applies to a civil
// reading.  IANA zones resolve daylight saving for that reading.
func OffsetAt(loc *time.Location, c calendar.CivilTime) int {
	_, off := time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, 0, 0, loc).Zone()
	return off / 60
}

// prepared is a validated request ready for the pipeline.
type prepared struct {
	local    calendar.CivilTime
	zone     *time.Location
	offset   int
	location *calendar.Location
}

// validateRequest performs boundary validation before anything is computed.
func validateRequest(req *ChartRequest) (*prepared, error) {
	if req == nil {
		return nil, errors.InvalidInput("request is required")
	}

	switch strings.ToLower(strings.TrimSpace(req.Calendar)) {
	case "", CalendarSolar, CalendarGregorian:
	case CalendarLunar:
		return nil, errors.New(errors.ErrCodeLunarInputUnsupported,
			"lunar calendar input requires a lunar-to-solar conversion; convert the date before charting")
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown calendar %q", req.Calendar))
	}

	local := calendar.CivilTime{
		Year:   req.Year,
		Month:  time.Month(req.Month),
		Day:    req.Day,
		Hour:   req.Hour,
		Minute: req.Minute,
	}
	if err := local.Validate(); err != nil {
		return nil, err
	}

	zone, err := ParseZone(req.Timezone)
	if err != nil {
		return nil, err
	}

	var loc *calendar.Location
	switch {
	case req.Latitude == nil && req.Longitude == nil:
	case req.Latitude == nil || req.Longitude == nil:
		return nil, errors.InvalidInput("latitude and longitude must be given together")
	default:
		if *req.Latitude < -90 || *req.Latitude > 90 {
			return nil, errors.InvalidInput(fmt.Sprintf("latitude %.6f out of range -90..90", *req.Latitude))
		}
		if *req.Longitude < -180 || *req.Longitude > 180 {
			return nil, errors.InvalidInput(fmt.Sprintf("longitude %.6f out of range -180..180", *req.Longitude))
		}
		loc = &calendar.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	if req.Strength != nil {
		if err := req.Strength.Validate(); err != nil {
			return nil, err
		}
	}

	return &prepared{
		local:    local,
		zone:     zone,
		offset:   OffsetAt(zone, local),
		location: loc,
	}, nil
}

//Personal.AI order the ending
