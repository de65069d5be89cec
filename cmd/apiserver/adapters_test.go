package main

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/infrastructure/database/redis"
)

func TestRedisHealthAdapter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	a := &redisHealthAdapter{client: redis.NewClientFrom(db, nil, nil)}
	assert.Equal(t, "redis", a.Name())

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, a.Check(context.Background()))

	mock.ExpectPing().SetErr(stderrors.New("connection refused"))
	assert.EqualError(t, a.Check(context.Background()), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTermTableHealthAdapter(t *testing.T) {
	cache := calendar.NewSolarTermCache()
	a := &termTableHealthAdapter{
		cache:  cache,
		method: calendar.MethodLowPrecision,
		now:    func() time.Time { return time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
	assert.Equal(t, "solar_terms", a.Name())
	require.NoError(t, a.Check(context.Background()))
	assert.Equal(t, 1, cache.Stats().Entries)

	a.method = calendar.EphemerisMethod("de440")
	assert.Error(t, a.Check(context.Background()))
}

func TestLoadConfig_FallsBackToEnv(t *testing.T) {
	cfg, watched, err := loadConfig("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Empty(t, watched)
	assert.NotZero(t, cfg.Server.Port)
}

//Personal.AI order the ending
