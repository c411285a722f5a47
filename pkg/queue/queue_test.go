package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glowmart/glowmart/pkg/queue"
)

// Jobs deserialize into fresh values, so test state lives in package-level
// counters rather than job fields.
var (
	echoRuns atomic.Int32
	failRuns atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) Name() string { return "test.echo" }

func (j *echoJob) Handle(context.Context) error {
	echoRuns.Add(1)
	return nil
}

type failJob struct{}

func (failJob) Name() string { return "test.fail" }

func (failJob) Handle(context.Context) error {
	failRuns.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.Register("test.echo", func() queue.Job { return &echoJob{} })
	queue.Register("test.fail", func() queue.Job { return &failJob{} })

	queue.StartWorkers(context.Background(), 2)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDispatchRunsJob(t *testing.T) {
	before := echoRuns.Load()

	if err := queue.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return echoRuns.Load() > before })
}

func TestFailingJobLandsInFailedJobs(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	before := len(queue.FailedJobs())

	if err := queue.Dispatch(failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(queue.FailedJobs()) > before
	})

	failed := queue.FailedJobs()
	last := failed[len(failed)-1]
	if last.JobName != "test.fail" {
		t.Errorf("failed job name = %q, want %q", last.JobName, "test.fail")
	}
	if last.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", last.Attempts)
	}
}

func TestDispatchConcurrent(t *testing.T) {
	before := echoRuns.Load()

	for i := 0; i < 20; i++ {
		go func() {
			queue.Dispatch(&echoJob{Val: "c"}) //nolint:errcheck
		}()
	}

	waitFor(t, 5*time.Second, func() bool {
		return echoRuns.Load() >= before+20
	})
}
