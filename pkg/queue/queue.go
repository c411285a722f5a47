// Package queue runs background jobs dispatched after a request commits.
//
// Jobs self-describe their type through Name(), which is also the key they
// are registered and deserialized under:
//
//	queue.Register(jobs.OrderPlacedName, func() queue.Job { return &jobs.OrderPlaced{} })
//	queue.Dispatch(&jobs.OrderPlaced{OrderID: id})
//
// The driver is swappable: the in-memory driver serves dev and tests, the
// Redis driver survives across processes.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glowmart/glowmart/pkg/logger"
	"github.com/glowmart/glowmart/pkg/metrics"
	"github.com/glowmart/glowmart/pkg/workerpool"
)

// Job is the interface every queued job must satisfy. The payload fields
// must be JSON-serializable.
type Job interface {
	// Name identifies the job type on the wire, e.g. "order.placed.mail".
	Name() string
	// Handle executes the job. Return a non-nil error to trigger a retry.
	Handle(ctx context.Context) error
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	JobName  string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	pool     *workerpool.Pool
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver. Call before StartWorkers.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many times a failing job is attempted.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialization by name.
// Call once at boot for every job type.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type jobEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// DispatchAfter pushes job onto the queue after a delay.
func DispatchAfter(job Job, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "job", job.Name(), "error", err)
		}
	}()
}

func (m *Manager) push(job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}

	env, err := json.Marshal(jobEnvelope{Type: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// StartWorkers launches n poller goroutines that pop envelopes off the
// driver and execute them on a bounded worker pool. Workers run until ctx
// is cancelled.
func StartWorkers(ctx context.Context, n int) {
	defaultManager.pool = workerpool.New(n)
	for i := 0; i < n; i++ {
		go defaultManager.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

// Stop drains the worker pool. Call after cancelling the StartWorkers ctx.
func Stop() {
	if defaultManager.pool != nil {
		defaultManager.pool.Shutdown()
	}
}

func (m *Manager) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		env := raw
		if err := m.pool.SubmitWait(func() { m.process(ctx, env) }); err != nil {
			return // pool closed, shutting down
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env jobEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env.Payload)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, payload []byte) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(ctx); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", job.Name(), "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second) // linear backoff
			continue
		}
		metrics.RecordQueueJob(job.Name(), "success", start)
		logger.Info("queue: job processed", "type", job.Name())
		return
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		JobName: job.Name(), Payload: payload, Err: lastErr,
		FailedAt: time.Now(), Attempts: m.maxRetry,
	})
	m.mu.Unlock()

	metrics.RecordQueueJob(job.Name(), "failed", start)
	logger.Error("queue: job exhausted retries", "type", job.Name(), "error", lastErr)
}

// FailedJobs returns a snapshot of jobs that exhausted their retries.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
