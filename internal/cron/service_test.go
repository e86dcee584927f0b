package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leviwiederhold/forman/pkg/logger"
	"github.com/leviwiederhold/forman/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	released int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.released++
	return nil
}

type heldLock struct{}

func (heldLock) Acquire(context.Context) (bool, error) { return false, nil }
func (heldLock) Release(context.Context) error         { return nil }

type testJob struct {
	name string
	err  error
	runs int
	seen func(ctx context.Context)
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(ctx context.Context) error {
	t.runs++
	if t.seen != nil {
		t.seen(ctx)
	}
	return t.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test"})
}

func newTestService(t *testing.T, lock Lock, params ServiceParams, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	require.NoError(t, err)
	params.Logger = testLogger()
	params.Lock = lock
	params.Registry = registry
	service, err := NewService(params)
	require.NoError(t, err)
	return service
}

func TestRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	lock := &fakeLock{}
	service := newTestService(t, lock, ServiceParams{}, failure, success)

	require.NoError(t, service.RunOnce(context.Background()))
	assert.Equal(t, 1, success.runs)
	assert.Equal(t, 1, failure.runs)
	assert.Equal(t, 1, lock.released)
	assert.False(t, lock.acquired)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	reg := prometheus.NewRegistry()
	job := &testJob{name: "quote-expiration"}
	service := newTestService(t, heldLock{}, ServiceParams{Metrics: metrics.NewCronJobMetrics(reg)}, job)

	require.NoError(t, service.RunOnce(context.Background()))
	assert.Zero(t, job.runs)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var skipped float64
	for _, mf := range mfs {
		if mf.GetName() == "forman_cron_cycles_skipped_total" {
			skipped = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), skipped)
}

func TestRunOnceAppliesJobTimeout(t *testing.T) {
	var deadline time.Time
	job := &testJob{name: "quote-expiration", seen: func(ctx context.Context) {
		deadline, _ = ctx.Deadline()
	}}
	service := newTestService(t, &fakeLock{}, ServiceParams{JobTimeout: time.Minute}, job)

	require.NoError(t, service.RunOnce(context.Background()))
	assert.False(t, deadline.IsZero(), "expected job context to carry a deadline")
}

func TestRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "quote-expiration"}
	service := newTestService(t, &fakeLock{}, ServiceParams{Interval: time.Hour}, job)

	ctx, cancel := context.WithCancel(context.Background())
	job.seen = func(context.Context) { cancel() }

	err := service.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, job.runs)
}

func TestNewServiceRequiresDeps(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	_, err = NewService(ServiceParams{Logger: testLogger(), Registry: registry})
	assert.Error(t, err, "expected error without lock")
	_, err = NewService(ServiceParams{Logger: testLogger(), Lock: &fakeLock{}})
	assert.Error(t, err, "expected error without registry")
}
