package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/pkg/errors"
)

func TestTermsCmd_Text(t *testing.T) {
	res := run(t, nil, "terms", "2024", "--tz", "+09:00")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	// title, header, separator, 24 terms, lunar new year
	require.Len(t, lines, 28)
	assert.True(t, strings.HasPrefix(lines[0], "Solar terms 2024 (vsop87, "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "TERM"))
	assert.True(t, strings.HasPrefix(lines[3], "Xiaohan"))
	assert.Equal(t, "Lunar new year 2024-02-10", lines[27])
	assert.Contains(t, res.stdout, "Lichun")
	assert.Contains(t, res.stdout, "+09:00")
}

func TestTermsCmd_JSONJieOnly(t *testing.T) {
	res := run(t, nil, "-o", "json", "terms", "2024", "--jie")
	require.NoError(t, res.err)

	var got chart.SolarTermsResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "UTC", got.Timezone)
	require.Len(t, got.Terms, 12)
	for _, term := range got.Terms {
		assert.True(t, term.Jie, term.Name)
	}
	assert.Equal(t, "Xiaohan", got.Terms[0].Name)
	assert.Equal(t, "Lichun", got.Terms[1].Name)
}

func TestTermsCmd_Table(t *testing.T) {
	res := run(t, nil, "-o", "table", "terms", "2024", "--ephemeris", "low-precision")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 26)
	assert.True(t, strings.HasPrefix(lines[0], "TERM"))
}

func TestTermsCmd_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"not a year", []string{"terms", "twenty"}, errors.ErrCodeBadRequest},
		{"out of range", []string{"terms", "3000"}, errors.ErrCodeYearOutOfRange},
		{"bad ephemeris", []string{"terms", "2024", "--ephemeris", "tables"}, errors.ErrCodeEphemerisMethod},
		{"bad zone", []string{"terms", "2024", "--tz", "Mars/Olympus"}, errors.ErrCodeTimezoneInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, nil, tc.args...)
			require.Error(t, res.err)
			assert.True(t, errors.IsCode(res.err, tc.code), "got %v", res.err)
		})
	}

	res := run(t, nil, "terms")
	assert.Error(t, res.err)
}

//Personal.AI order the ending
