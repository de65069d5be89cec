package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/pkg/errors"
)

func TestDeepMerge(t *testing.T) {
	base := map[string]interface{}{
		"school": "standard",
		"true_solar_time": map[string]interface{}{
			"enabled":          false,
			"equation_of_time": true,
		},
		"warm_years": []interface{}{2020, 2021},
	}
	patch := map[string]interface{}{
		"true_solar_time": map[string]interface{}{"enabled": true},
		"warm_years":      []interface{}{2030},
		"priority":        "seasonal-first",
	}

	got := DeepMerge(base, patch)
	want := map[string]interface{}{
		"school": "standard",
		"true_solar_time": map[string]interface{}{
			"enabled":          true,
			"equation_of_time": true,
		},
		"warm_years": []interface{}{2030},
		"priority":   "seasonal-first",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	// inputs untouched
	assert.Equal(t, false, base["true_solar_time"].(map[string]interface{})["enabled"])
	assert.NotContains(t, base, "priority")
}

func TestDeepMerge_MapReplacesScalarAndBack(t *testing.T) {
	got := DeepMerge(map[string]interface{}{"a": 1, "b": map[string]interface{}{"x": 1}},
		map[string]interface{}{"a": map[string]interface{}{"y": 2}, "b": "flat"})
	assert.Equal(t, map[string]interface{}{"y": 2}, got["a"])
	assert.Equal(t, "flat", got["b"])
}

func TestDeepMerge_NilInputs(t *testing.T) {
	assert.Empty(t, DeepMerge(nil, nil))
	assert.Equal(t, map[string]interface{}{"k": "v"}, DeepMerge(nil, map[string]interface{}{"k": "v"}))
}

func TestSchoolPreset(t *testing.T) {
	p, err := SchoolPreset("classical")
	require.NoError(t, err)
	assert.Equal(t, 85.0, p["strong_threshold"])
	assert.Equal(t, 15.0, p["weak_threshold"])
	assert.Equal(t, false, p["banhap"])

	p, err = SchoolPreset("")
	require.NoError(t, err)
	assert.Equal(t, "standard", p["school"])

	_, err = SchoolPreset("mystic")
	assert.Error(t, err)
}

func TestResolveEngine_Layering(t *testing.T) {
	base := DefaultConfig().Engine

	got, err := ResolveEngine(base, nil)
	require.NoError(t, err)
	require.NotNil(t, got.StrongThreshold)
	assert.Equal(t, 80.0, *got.StrongThreshold)
	assert.Equal(t, 20.0, *got.WeakThreshold)
	assert.True(t, *got.Banhap)

	// request switches school; preset follows.
	got, err = ResolveEngine(base, map[string]interface{}{"school": "classical"})
	require.NoError(t, err)
	assert.Equal(t, "classical", got.School)
	assert.Equal(t, 85.0, *got.StrongThreshold)
	assert.False(t, *got.Banhap)

	// explicit config override beats the preset.
	strong := 78.0
	base.StrongThreshold = &strong
	got, err = ResolveEngine(base, map[string]interface{}{"school": "classical"})
	require.NoError(t, err)
	assert.Equal(t, 78.0, *got.StrongThreshold)
	assert.Equal(t, 15.0, *got.WeakThreshold)

	// the request patch beats both.
	got, err = ResolveEngine(base, map[string]interface{}{
		"strong_threshold": 90,
		"banhap":           true,
		"true_solar_time":  map[string]interface{}{"enabled": true},
		"day_boundary":     "zi-split",
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, *got.StrongThreshold)
	assert.True(t, *got.Banhap)
	assert.True(t, got.TrueSolarTime.Enabled)
	assert.Equal(t, "zi-split", got.DayBoundary)
	assert.Equal(t, base.BatchConcurrency, got.BatchConcurrency)
}

func TestResolveEngine_Rejects(t *testing.T) {
	base := DefaultConfig().Engine
	cases := map[string]map[string]interface{}{
		"unknown key":       {"colour": "red"},
		"unknown school":    {"school": "mystic"},
		"school not string": {"school": 3},
		"bad boundary":      {"year_boundary": "equinox"},
		"inverted":          {"strong_threshold": 10, "weak_threshold": 40},
		"wrong type":        {"true_solar_time": "yes please"},
	}
	for name, patch := range cases {
		patch := patch
		t.Run(name, func(t *testing.T) {
			_, err := ResolveEngine(base, patch)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOptions), "got %v", err)
		})
	}
}

func TestEngineConfig_ToMap_OmitsUnset(t *testing.T) {
	m := EngineConfig{School: "modern"}.ToMap()
	assert.Equal(t, "modern", m["school"])
	assert.NotContains(t, m, "strong_threshold")
	assert.NotContains(t, m, "banhap")
	assert.NotContains(t, m, "day_boundary")
	assert.Contains(t, m, "true_solar_time")
}

//Personal.AI order the ending
