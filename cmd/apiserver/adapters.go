package main

import (
	"context"
	"time"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/infrastructure/database/redis"
)

// Adapters for HealthHandler

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string {
	return "redis"
}

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// termTableHealthAdapter reports ready once the current year's table resolves.
type termTableHealthAdapter struct {
	cache  *calendar.SolarTermCache
	method calendar.EphemerisMethod
	now    func() time.Time
}

func (a *termTableHealthAdapter) Name() string {
	return "solar_terms"
}

func (a *termTableHealthAdapter) Check(ctx context.Context) error {
	_, err := a.cache.Table(ctx, a.method, a.now().UTC().Year())
	return err
}

//Personal.AI order the ending
