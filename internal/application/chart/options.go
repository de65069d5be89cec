package chart

import (
	"github.com/turtacn/saju-engine/internal/config"
	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/internal/domain/yongshin"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// OptionsFromConfig converts a resolved engine section into typed options.
// Threshold and banhap overrides fall back to the school preset when unset.
func OptionsFromConfig(e config.EngineConfig) (Options, error) {
	var (
		o   Options
		err error
	)
	if o.Policy.Day, err = calendar.ParseDayBoundary(e.DayBoundary); err != nil {
		return Options{}, invalidOptions(err)
	}
	if o.Policy.Year, err = calendar.ParseYearBoundary(e.YearBoundary); err != nil {
		return Options{}, invalidOptions(err)
	}
	if o.Policy.Month, err = calendar.ParseMonthBoundary(e.MonthBoundary); err != nil {
		return Options{}, invalidOptions(err)
	}
	if o.Policy.Ephemeris, err = calendar.ParseEphemerisMethod(e.Ephemeris); err != nil {
		return Options{}, invalidOptions(err)
	}
	o.Policy.TrueSolarTime = calendar.TrueSolarTime{
		Enabled:        e.TrueSolarTime.Enabled,
		EquationOfTime: e.TrueSolarTime.EquationOfTime,
	}

	if o.School, err = gyeokguk.ParseSchool(e.School); err != nil {
		return Options{}, invalidOptions(err)
	}
	o.Thresholds = o.School.Thresholds()
	if e.StrongThreshold != nil {
		o.Thresholds.Strong = *e.StrongThreshold
	}
	if e.WeakThreshold != nil {
		o.Thresholds.Weak = *e.WeakThreshold
	}
	if err := o.Thresholds.Validate(); err != nil {
		return Options{}, invalidOptions(err)
	}

	o.Relation.Banhap = o.School.Banhap()
	if e.Banhap != nil {
		o.Relation.Banhap = *e.Banhap
	}
	if o.Relation.Strictness, err = relation.ParseStrictness(e.Strictness); err != nil {
		return Options{}, invalidOptions(err)
	}
	if o.Priority, err = yongshin.ParsePriority(e.Priority); err != nil {
		return Options{}, invalidOptions(err)
	}
	return o, nil
}

func invalidOptions(err error) error {
	if errors.IsCode(err, errors.ErrCodeInvalidOptions) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeInvalidOptions, "invalid engine options")
}

//Personal.AI order the ending
