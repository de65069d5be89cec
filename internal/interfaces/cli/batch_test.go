package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/pkg/errors"
)

const batchYAML = `
- id: c-1
  year: 2024
  month: 2
  day: 10
  hour: 12
  timezone: "+09:00"
- id: bad
  year: 2024
  month: 13
  day: 1
  hour: 0
  timezone: UTC
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBatchCmd_YAMLFile(t *testing.T) {
	res := run(t, nil, "batch", writeFile(t, "births.yaml", batchYAML))
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, ": 1 succeeded, 1 failed\n")
	assert.Contains(t, res.stdout, "JiaChen BingYin JiaChen GengWu")
	assert.Contains(t, res.stdout, "month 13 out of range 1-12")
}

func TestBatchCmd_JSONStdin(t *testing.T) {
	in := `{"charts":[` +
		`{"id":"a","year":2024,"month":2,"day":10,"hour":12,"timezone":"+09:00"},` +
		`{"id":"b","year":2024,"month":2,"day":10,"hour":12,"timezone":"+09:00","calendar":"lunar"}]}`
	res := run(t, strings.NewReader(in), "-o", "json", "batch", "-")
	require.NoError(t, res.err)

	var got struct {
		ID    string `json:"id"`
		Items []struct {
			Index int `json:"index"`
			Chart *struct {
				ID string `json:"id"`
			} `json:"chart"`
			Error *chart.ItemError `json:"error"`
		} `json:"items"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.NotEmpty(t, got.ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.Failed)

	require.NotNil(t, got.Items[0].Chart)
	assert.Equal(t, "a", got.Items[0].Chart.ID)
	assert.Nil(t, got.Items[0].Error)
	assert.Equal(t, 1, got.Items[1].Index)
	require.NotNil(t, got.Items[1].Error)
	assert.Equal(t, errors.ErrCodeLunarInputUnsupported.String(), got.Items[1].Error.Code)
}

func TestBatchCmd_FailOnError(t *testing.T) {
	res := run(t, nil, "batch", "--fail-on-error", writeFile(t, "births.yaml", batchYAML))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 2 charts failed")
	// The result is still printed.
	assert.Contains(t, res.stdout, "1 succeeded")
}

func TestBatchCmd_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{"empty list", "[]", errors.ErrCodeInvalidBirthInput},
		{"scalar", "42", errors.ErrCodeBadRequest},
		{"map without charts", "births: []", errors.ErrCodeBadRequest},
		{"unknown field", `[{"year":2024,"colour":"red"}]`, errors.ErrCodeBadRequest},
		{"malformed", "[{", errors.ErrCodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, strings.NewReader(tc.input), "batch", "-")
			require.Error(t, res.err)
			assert.True(t, errors.IsCode(res.err, tc.code), "got %v", res.err)
		})
	}

	res := run(t, nil, "batch", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestDecodeBatch_NestedOptions(t *testing.T) {
	reqs, err := decodeBatch([]byte(`
charts:
  - year: 2024
    month: 2
    day: 10
    hour: 12
    timezone: "+09:00"
    latitude: 37.5
    longitude: 127
    options:
      school: modern
      true_solar_time:
        enabled: true
`))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	r := reqs[0]
	require.NotNil(t, r.Latitude)
	assert.Equal(t, 37.5, *r.Latitude)
	assert.Equal(t, 127.0, *r.Longitude)
	assert.Equal(t, "modern", r.Options["school"])
	assert.Equal(t, map[string]interface{}{"enabled": true}, r.Options["true_solar_time"])
}

//Personal.AI order the ending
