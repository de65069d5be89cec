package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/internal/config"
	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
)

var sharedService chart.Service

func testService(t *testing.T) chart.Service {
	t.Helper()
	if sharedService == nil {
		svc, err := chart.NewService(config.DefaultConfig().Engine,
			calendar.NewBuilder(calendar.NewSolarTermCache()), logging.NewNopLogger())
		require.NoError(t, err)
		sharedService = svc
	}
	return sharedService
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	cmd := newRootCommand(testService(t))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "saju", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Contains(t, cmd.Version, Version)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"chart", "terms", "batch"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	cases := map[string]string{
		"config":    "",
		"log-level": "warn",
		"output":    OutputText,
		"verbose":   "false",
		"timeout":   "30s",
	}
	for name, def := range cases {
		f := pf.Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, def, f.DefValue, name)
	}
	assert.Equal(t, "c", pf.Lookup("config").Shorthand)
	assert.Equal(t, "o", pf.Lookup("output").Shorthand)
}

func TestPersistentPreRun_RejectsUnknownOutput(t *testing.T) {
	res := run(t, nil, "-o", "xml", "terms", "2024")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `unknown output format "xml"`)
}

func TestPersistentPreRun_AcceptsEveryOutputFormat(t *testing.T) {
	for _, format := range []string{OutputText, OutputJSON, OutputTable} {
		res := run(t, nil, "-o", format, "terms", "2024", "--jie")
		require.NoError(t, res.err, format)
		assert.Contains(t, res.stdout, "Lichun", format)
	}
}

func TestPersistentPreRun_RejectsUnknownLogLevel(t *testing.T) {
	res := run(t, nil, "--log-level", "chatty", "terms", "2024")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "logger initialization failed")
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	res := run(t, nil, "--config", "/nonexistent/saju.yaml", "terms", "2024")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "config initialization failed")
}

func TestGetCLIContext(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)

	want := &CLIContext{OutputFormat: OutputJSON}
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, want))
	got, err := GetCLIContext(cmd)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestCLIContext_Close(t *testing.T) {
	var order []string
	boom := stderrors.New("boom")
	c := &CLIContext{closers: []func() error{
		func() error { order = append(order, "first"); return nil },
		func() error { order = append(order, "second"); return boom },
	}}

	assert.ErrorIs(t, c.Close(), boom)
	assert.Equal(t, []string{"second", "first"}, order)
	assert.NoError(t, c.Close())
}

func TestCommandContext_Timeout(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	ctx, cancel := commandContext(cmd, &CLIContext{Timeout: time.Minute})
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	ctx2, cancel2 := commandContext(cmd, &CLIContext{})
	defer cancel2()
	_, ok = ctx2.Deadline()
	assert.False(t, ok)
}

func TestPrintResult_WithoutContextPrintsJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, PrintResult(cmd, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())

	PrintError(cmd, stderrors.New("bad things"))
	assert.Equal(t, "Error: bad things\n", errOut.String())
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"A", "LONG"}, [][]string{{"xx", "y"}, {"z"}})
	want := strings.Join([]string{
		"A   LONG",
		"--  ----",
		"xx  y",
		"z   ",
		"",
	}, "\n")
	assert.Equal(t, want, got)

	assert.Empty(t, FormatTable(nil, [][]string{{"x"}}))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
}

//Personal.AI order the ending
