package usecase

import (
	"context"
	"strings"
	"time"

	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/ws"

	"github.com/google/uuid"
)

// Identity is the authenticated caller as the auth middleware saw it. The
// core treats it as read-only.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func (i Identity) Owner() string {
	return strings.ToLower(strings.TrimSpace(i.Email))
}

// AnalysisCache is the part of the cache the usecases write through.
type AnalysisCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AnalysisCanceler drops in-flight background analyses.
type AnalysisCanceler interface {
	Cancel(owner string, jobID uuid.UUID)
	CancelOwner(owner string)
}

type EventPublisher interface {
	Publish(owner string, evt ws.Event)
}

// Invalidator drops cached and in-flight analyses after a change to a job
// or to the data it is scored against. Cache failures are logged and
// swallowed; the cache is never the source of truth.
type Invalidator struct {
	cache  AnalysisCache
	runner AnalysisCanceler
	logger *logging.Logger
}

func NewInvalidator(c AnalysisCache, runner AnalysisCanceler, logger *logging.Logger) *Invalidator {
	return &Invalidator{cache: c, runner: runner, logger: logger}
}

func (i *Invalidator) Job(ctx context.Context, owner string, jobID uuid.UUID) {
	if i == nil {
		return
	}
	if i.runner != nil {
		i.runner.Cancel(owner, jobID)
	}
	if i.cache != nil {
		if err := i.cache.Delete(ctx, cache.AnalysisKey(owner, jobID)); err != nil {
			i.logger.Warn("analysis cache invalidation failed", "owner", owner, "job_id", jobID, "error", err)
		}
	}
}

func (i *Invalidator) Owner(ctx context.Context, owner string) {
	if i == nil {
		return
	}
	if i.runner != nil {
		i.runner.CancelOwner(owner)
	}
	if i.cache != nil {
		if err := i.cache.DeleteByPattern(ctx, cache.UserAnalysisPattern(owner)); err != nil {
			i.logger.Warn("analysis cache invalidation failed", "owner", owner, "error", err)
		}
	}
}
