package usecase

import (
	"context"
	"time"
)

// EventPublisher pushes live notifications to connected clients.
type EventPublisher interface {
	Publish(eventType string, projectID int64, payload any)
}

type StaffingRecorder interface {
	StaffingRun(flow string, err error)
	StaffingSlots(flow string, filled, vacant int)
}

type RatingRecorder interface {
	Rating(lowScore bool)
}

// JSONCache is a best-effort read cache. Misses and outages are not errors to callers.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, int64, any) {}

type nopRecorder struct{}

func (nopRecorder) StaffingRun(string, error)      {}
func (nopRecorder) StaffingSlots(string, int, int) {}
func (nopRecorder) Rating(bool)                    {}

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (nopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, ...string) error                   { return nil }
