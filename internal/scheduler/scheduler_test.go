package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/feargreed/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	err      error
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newTestScheduler() *Scheduler {
	s := New(logger.NewTesting())
	s.retryDelay = time.Millisecond
	return s
}

func waitForHistory(t *testing.T, s *Scheduler, name string) JobResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		history, err := s.History(name)
		require.NoError(t, err)
		s.mu.RLock()
		var result JobResult
		done := len(history.Results) > 0
		if done {
			result = history.Results[0]
		}
		s.mu.RUnlock()
		if done {
			return result
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never recorded a result", name)
	return JobResult{}
}

func TestAddJob_RejectsDuplicates(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "score", schedule: "@daily"}))
	err := s.AddJob(&stubJob{name: "score", schedule: "@daily"})
	assert.ErrorContains(t, err, "already exists")
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()

	err := s.AddJob(&stubJob{name: "score", schedule: "not a cron expr"})
	assert.ErrorContains(t, err, "schedule job")
}

func TestRunJob_RecordsSuccess(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "score", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("score"))

	result := waitForHistory(t, s, "score")
	assert.True(t, result.Success)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestRunJob_RetriesThenRecordsFailure(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "score", schedule: "@daily", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("score"))

	result := waitForHistory(t, s, "score")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "upstream down")
	assert.Equal(t, int32(3), job.runs.Load()) // initial attempt plus two retries
}

func TestRunJob_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	assert.ErrorContains(t, s.RunJob("nope"), "not found")
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "score", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, historyLimit)
}

func TestJobHistory_SuccessRate(t *testing.T) {
	h := &JobHistory{}
	assert.Zero(t, h.SuccessRate())

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})
	assert.InDelta(t, 2.0/3.0, h.SuccessRate(), 1e-9)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.False(t, latest.Success)
}
