package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(Config{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(Config{OutputPaths: []string{"/nonexistent-dir/sub/log.txt"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDefaultAndDevelopmentLoggers(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
	assert.NotNil(t, NewDevelopmentLogger())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
	assert.Equal(t, l, l.WithContext(context.Background()))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)
	l.Debug("hidden")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "warn msg", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	ts := time.Date(2024, 2, 4, 8, 27, 0, 0, time.UTC)
	l.Info("chart",
		String("s", "v"), Int("i", 3), Int64("i64", 4), Float64("f", 0.5), Bool("b", true),
		Duration("d", time.Second), Time("t", ts), Err(errors.New("boom")), Any("a", []int{1}))

	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "v", ctx["s"])
	assert.Equal(t, int64(3), ctx["i"])
	assert.Equal(t, int64(4), ctx["i64"])
	assert.Equal(t, 0.5, ctx["f"])
	assert.Equal(t, true, ctx["b"])
	assert.Equal(t, time.Second, ctx["d"])
	assert.Equal(t, ts, ctx["t"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	l.Named("chart").With(String(KeyComponent, "service")).Info("msg")

	e := logs.All()[0]
	assert.Equal(t, "chart", e.LoggerName)
	assert.Equal(t, "service", e.ContextMap()[KeyComponent])
}

func TestZapLogger_WithContext(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("tagged")
	l.WithContext(context.Background()).Info("plain")

	entries := logs.All()
	assert.Equal(t, "req-123", entries[0].ContextMap()[KeyRequestID])
	assert.NotContains(t, entries[1].ContextMap(), KeyRequestID)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Equal(t, "abc", RequestIDFromContext(ContextWithRequestID(context.Background(), "abc")))
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObserved(zapcore.InfoLevel)
	SetDefault(l)
	assert.Equal(t, l, Default())
	SetDefault(nil)
	assert.Equal(t, l, Default())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "INFO": LevelInfo, "": LevelInfo, "warning": LevelWarn, "error": LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
}

func TestLogDuration(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	LogDuration(l, "fast", time.Now(), time.Hour)
	LogDuration(l, "slow", time.Now().Add(-2*time.Second), time.Second, Int(KeyYear, 2024))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Contains(t, entries[1].ContextMap(), KeyDuration)
	assert.Equal(t, int64(2024), entries[1].ContextMap()[KeyYear])
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "k=v", String("k", "v").String())
}

//Personal.AI order the ending
