package config

import (
	"github.com/mitchellh/mapstructure"

	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// DeepMerge returns a new map holding base overlaid with patch.  Nested maps
// merge key by key; every other value, slices included, is replaced.
// Neither argument is modified.
func DeepMerge(base, patch map[string]interface{}) map[string]interface{} {
	out := copyMap(base)
	for k, pv := range patch {
		pm, pIsMap := pv.(map[string]interface{})
		bm, bIsMap := out[k].(map[string]interface{})
		if pIsMap && bIsMap {
			out[k] = DeepMerge(bm, pm)
			continue
		}
		out[k] = copyValue(pv)
	}
	return out
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		s := make([]interface{}, len(t))
		for i := range t {
			s[i] = copyValue(t[i])
		}
		return s
	default:
		return v
	}
}

// SchoolPreset returns the option layer a school contributes.
func SchoolPreset(name string) (map[string]interface{}, error) {
	school, err := gyeokguk.ParseSchool(name)
	if err != nil {
		return nil, err
	}
	th := school.Thresholds()
	return map[string]interface{}{
		"school":           string(school),
		"strong_threshold": th.Strong,
		"weak_threshold":   th.Weak,
		"banhap":           school.Banhap(),
	}, nil
}

// ToMap renders the explicitly set engine options as a merge layer.  Unset
// overrides are omitted so they do not mask a school preset.
func (e EngineConfig) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("day_boundary", e.DayBoundary)
	put("year_boundary", e.YearBoundary)
	put("month_boundary", e.MonthBoundary)
	put("ephemeris", e.Ephemeris)
	put("school", e.School)
	put("strictness", e.Strictness)
	put("priority", e.Priority)
	m["true_solar_time"] = map[string]interface{}{
		"enabled":          e.TrueSolarTime.Enabled,
		"equation_of_time": e.TrueSolarTime.EquationOfTime,
	}
	if e.StrongThreshold != nil {
		m["strong_threshold"] = *e.StrongThreshold
	}
	if e.WeakThreshold != nil {
		m["weak_threshold"] = *e.WeakThreshold
	}
	if e.Banhap != nil {
		m["banhap"] = *e.Banhap
	}
	if e.BatchConcurrency != 0 {
		m["batch_concurrency"] = e.BatchConcurrency
	}
	if e.MaxBatchSize != 0 {
		m["max_batch_size"] = e.MaxBatchSize
	}
	return m
}

// ResolveEngine layers school preset, base and patch (later wins) and
// decodes the result.  The school is taken from patch when present so a
// request can switch presets.  Unknown keys and invalid values fail with
// ErrCodeInvalidOptions.
func ResolveEngine(base EngineConfig, patch map[string]interface{}) (EngineConfig, error) {
	schoolName := base.School
	if s, ok := patch["school"]; ok {
		str, isStr := s.(string)
		if !isStr {
			return EngineConfig{}, errors.Newf(errors.ErrCodeInvalidOptions, "school must be a string, got %T", s)
		}
		schoolName = str
	}
	preset, err := SchoolPreset(schoolName)
	if err != nil {
		return EngineConfig{}, errors.Wrap(err, errors.ErrCodeInvalidOptions, "unknown school")
	}

	layered := DeepMerge(DeepMerge(preset, base.ToMap()), patch)

	var out EngineConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return EngineConfig{}, errors.Wrap(err, errors.ErrCodeInternal, "build option decoder")
	}
	if err := dec.Decode(layered); err != nil {
		return EngineConfig{}, errors.Wrap(err, errors.ErrCodeInvalidOptions, "decode engine options")
	}

	ApplyEngineDefaults(&out)
	if err := out.Validate(); err != nil {
		return EngineConfig{}, errors.Wrap(err, errors.ErrCodeInvalidOptions, "invalid engine options")
	}
	return out, nil
}

//Personal.AI order the ending
