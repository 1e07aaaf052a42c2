// Package jobs runs scheduled maintenance work on a cron schedule, with a
// redis lock so only one worker instance executes a given job at a time.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/srobertsphd/alano-club/pkg/logger"
	"github.com/srobertsphd/alano-club/pkg/metrics"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Locker hands out distributed locks keyed by job name.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// RegistryParams groups dependencies for the job registry.
type RegistryParams struct {
	Locker  Locker
	LockTTL time.Duration
	Logger  *logger.Logger
	Metrics *metrics.JobMetrics
}

// Registry schedules jobs and guards each run with the distributed lock.
type Registry struct {
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration
	logg    *logger.Logger
	metrics *metrics.JobMetrics
}

// NewRegistry builds an empty registry. Locker may be nil for single-instance
// deployments; jobs then run unguarded.
func NewRegistry(params RegistryParams) *Registry {
	ttl := params.LockTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Registry{
		cron:    cron.New(),
		locker:  params.Locker,
		lockTTL: ttl,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
}

// Register wires a job onto the given cron expression.
func (r *Registry) Register(schedule string, job Job) error {
	_, err := r.cron.AddFunc(schedule, func() {
		r.RunNow(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", job.Name(), err)
	}
	return nil
}

// RunNow executes the job immediately, honoring the lock. Used by the
// scheduler and by the on-demand admin trigger.
func (r *Registry) RunNow(ctx context.Context, job Job) {
	if r.logg != nil {
		ctx = r.logg.WithJob(ctx, job.Name())
	}

	if r.locker != nil {
		acquired, err := r.locker.Acquire(ctx, job.Name(), r.lockTTL)
		if err != nil {
			r.metrics.IncFailure(job.Name())
			if r.logg != nil {
				r.logg.Error(ctx, "acquiring job lock", err)
			}
			return
		}
		if !acquired {
			if r.logg != nil {
				r.logg.Info(ctx, "job already running elsewhere, skipping")
			}
			return
		}
		defer func() {
			if err := r.locker.Release(ctx, job.Name()); err != nil && r.logg != nil {
				r.logg.Warn(ctx, "releasing job lock: "+err.Error())
			}
		}()
	}

	started := time.Now()
	err := job.Run(ctx)
	r.metrics.ObserveDuration(job.Name(), time.Since(started))
	if err != nil {
		r.metrics.IncFailure(job.Name())
		if r.logg != nil {
			r.logg.Error(ctx, "job failed", err)
		}
		return
	}
	r.metrics.IncSuccess(job.Name())
	if r.logg != nil {
		r.logg.Info(ctx, "job finished")
	}
}

// Start launches the scheduler in its own goroutine.
func (r *Registry) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Registry) Stop(ctx context.Context) error {
	done := r.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
