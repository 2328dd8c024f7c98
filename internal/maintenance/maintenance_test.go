package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls  int
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.n, f.err
}

func (f *fakePurger) PurgeOrphansBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.n, f.err
}

func TestPurgeRunsBothJobs(t *testing.T) {
	projects := &fakePurger{n: 3}
	plans := &fakePurger{n: 1}
	s := NewScheduler(projects, plans)

	s.purge()

	assert.Equal(t, 1, projects.calls)
	assert.Equal(t, 1, plans.calls)

	wantCutoff := time.Now().Add(-retention)
	assert.WithinDuration(t, wantCutoff, projects.cutoff, time.Minute)
	assert.WithinDuration(t, wantCutoff, plans.cutoff, time.Minute)
}

func TestPurgeProjectFailureDoesNotSkipPlans(t *testing.T) {
	projects := &fakePurger{err: errors.New("db down")}
	plans := &fakePurger{}
	s := NewScheduler(projects, plans)

	s.purge()

	assert.Equal(t, 1, plans.calls, "plan purge still runs after a project purge failure")
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(&fakePurger{}, &fakePurger{})
	assert.NoError(t, s.Start())
	s.Stop()
}
