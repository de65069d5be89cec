package cli

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/pkg/errors"
)

var knownBirth = []string{"chart", "--date", "2024-02-10", "--time", "12:00", "--tz", "+09:00", "--id", "c-1"}

func TestChartCmd_Text(t *testing.T) {
	res := run(t, nil, knownBirth...)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Chart      c-1\n")
	assert.Contains(t, res.stdout, "Pillars    JiaChen BingYin JiaChen GengWu\n")
	assert.Contains(t, res.stdout, "2024-02-10T03:00:00Z (offset +540 min")
	assert.Contains(t, res.stdout, "Elements   Wood 3, Fire 2, Earth 2, Metal 1, Water 0\n")
	assert.Contains(t, res.stdout, "Pattern    jianlu (standard, confidence 1.00)")
	assert.NotContains(t, res.stdout, "Reasoning")
}

func TestChartCmd_Verbose(t *testing.T) {
	res := run(t, nil, append([]string{"-v"}, knownBirth...)...)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Reasoning")
}

func TestChartCmd_JSON(t *testing.T) {
	res := run(t, nil, append([]string{"-o", "json"}, knownBirth...)...)
	require.NoError(t, res.err)

	var got struct {
		ID      string `json:"id"`
		Pillars map[string]struct {
			Stem   string `json:"stem"`
			Branch string `json:"branch"`
		} `json:"pillars"`
		Pattern struct {
			Pattern string `json:"pattern"`
		} `json:"pattern"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, "jianlu", got.Pattern.Pattern)
	assert.Equal(t, "Jia", got.Pillars["day"].Stem)
	assert.Equal(t, "Wu", got.Pillars["hour"].Branch)
}

func TestChartCmd_Table(t *testing.T) {
	res := run(t, nil, append([]string{"-o", "table"}, knownBirth...)...)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "POSITION")
	assert.Contains(t, res.stdout, "hour      GengWu")
	assert.Contains(t, res.stdout, "Metal")
}

func TestChartCmd_OptionOverride(t *testing.T) {
	res := run(t, nil, append([]string{"-o", "json"}, append(knownBirth, "--set", "school=modern")...)...)
	require.NoError(t, res.err)

	var got struct {
		Options struct {
			School     string `json:"school"`
			Thresholds struct {
				Strong float64 `json:"strong"`
				Weak   float64 `json:"weak"`
			} `json:"thresholds"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "modern", got.Options.School)
	assert.Equal(t, 75.0, got.Options.Thresholds.Strong)
	assert.Equal(t, 25.0, got.Options.Thresholds.Weak)
}

func TestChartCmd_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"bad date", []string{"chart", "--date", "2024-02-30", "--time", "12:00"}, errors.ErrCodeInvalidBirthInput},
		{"bad time", []string{"chart", "--date", "2024-02-10", "--time", "noon"}, errors.ErrCodeInvalidBirthInput},
		{"hour out of range", []string{"chart", "--date", "2024-02-10", "--time", "24:00"}, errors.ErrCodeInvalidBirthInput},
		{"year out of range", []string{"chart", "--date", "1500-02-10", "--time", "12:00"}, errors.ErrCodeYearOutOfRange},
		{"lunar", []string{"chart", "--date", "2024-02-10", "--time", "12:00", "--calendar", "lunar"}, errors.ErrCodeLunarInputUnsupported},
		{"latitude alone", []string{"chart", "--date", "2024-02-10", "--time", "12:00", "--lat", "37.5"}, errors.ErrCodeInvalidBirthInput},
		{"unknown option", []string{"chart", "--date", "2024-02-10", "--time", "12:00", "--set", "colour=red"}, errors.ErrCodeInvalidOptions},
		{"malformed option", []string{"chart", "--date", "2024-02-10", "--time", "12:00", "--set", "school"}, errors.ErrCodeInvalidOptions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, nil, tc.args...)
			require.Error(t, res.err)
			assert.True(t, errors.IsCode(res.err, tc.code), "got %v", res.err)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestChartCmd_RequiredFlags(t *testing.T) {
	res := run(t, nil, "chart", "--time", "12:00")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `"date"`)
}

func TestParseOptionPatch(t *testing.T) {
	got, err := parseOptionPatch([]string{
		"school=modern",
		"true_solar_time.enabled=true",
		"true_solar_time.equation_of_time=false",
		"strong_threshold=70",
		"priority = seasonal-first",
	})
	require.NoError(t, err)
	want := map[string]interface{}{
		"school": "modern",
		"true_solar_time": map[string]interface{}{
			"enabled":          true,
			"equation_of_time": false,
		},
		"strong_threshold": 70.0,
		"priority":         "seasonal-first",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patch mismatch (-want +got):\n%s", diff)
	}

	none, err := parseOptionPatch(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestParseOptionPatch_Conflicts(t *testing.T) {
	for _, pairs := range [][]string{
		{"a=1", "a.b=2"},
		{"a.b=2", "a=1"},
		{"=1"},
		{"novalue"},
	} {
		_, err := parseOptionPatch(pairs)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOptions), "%v", pairs)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("06:05")
	require.NoError(t, err)
	assert.Equal(t, 6, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "0605", "aa:bb", "12:"} {
		_, _, err := parseClock(bad)
		assert.Error(t, err, bad)
	}
}

//Personal.AI order the ending
