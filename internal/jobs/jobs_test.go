package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

type fakeLocker struct {
	held     map[string]bool
	acquires int
	releases int
	err      error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (f *fakeLocker) Acquire(_ context.Context, name string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.acquires++
	if f.held[name] {
		return false, nil
	}
	f.held[name] = true
	return true, nil
}

func (f *fakeLocker) Release(_ context.Context, name string) error {
	f.releases++
	delete(f.held, name)
	return nil
}

func TestRunNowAcquiresAndReleasesLock(t *testing.T) {
	locker := newFakeLocker()
	registry := NewRegistry(RegistryParams{Locker: locker})
	job := &fakeJob{name: "backup"}

	registry.RunNow(context.Background(), job)

	if job.runs != 1 {
		t.Fatalf("expected one run, got %d", job.runs)
	}
	if locker.acquires != 1 || locker.releases != 1 {
		t.Fatalf("expected lock round trip, got %d acquires / %d releases", locker.acquires, locker.releases)
	}
	if locker.held[job.name] {
		t.Fatal("lock should be released after the run")
	}
}

func TestRunNowSkipsWhenLockHeld(t *testing.T) {
	locker := newFakeLocker()
	locker.held["backup"] = true
	registry := NewRegistry(RegistryParams{Locker: locker})
	job := &fakeJob{name: "backup"}

	registry.RunNow(context.Background(), job)

	if job.runs != 0 {
		t.Fatalf("job should be skipped while the lock is held, ran %d times", job.runs)
	}
}

func TestRunNowReleasesLockOnJobFailure(t *testing.T) {
	locker := newFakeLocker()
	registry := NewRegistry(RegistryParams{Locker: locker})
	job := &fakeJob{name: "backup", err: errors.New("disk full")}

	registry.RunNow(context.Background(), job)

	if locker.releases != 1 {
		t.Fatalf("lock should be released even on failure, got %d releases", locker.releases)
	}
}

func TestRunNowWithoutLockerStillRuns(t *testing.T) {
	registry := NewRegistry(RegistryParams{})
	job := &fakeJob{name: "backup"}

	registry.RunNow(context.Background(), job)

	if job.runs != 1 {
		t.Fatalf("expected one run, got %d", job.runs)
	}
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	registry := NewRegistry(RegistryParams{})

	if err := registry.Register("not a cron expr", &fakeJob{name: "backup"}); err == nil {
		t.Fatal("expected schedule parse error")
	}
}
