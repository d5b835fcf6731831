package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scroll-otc-web/pkg/logger"
)

// Job is a named unit of background work. At most one job with a given name
// is queued or running at a time.
type Job struct {
	Name    string
	Run     func(ctx context.Context) error
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrJobPending          = errors.New("job already pending")
	errShuttingDown        = errors.New("scheduler is shutting down")
)

var (
	metricsOnce        sync.Once
	jobRunsTotal       *prometheus.CounterVec
	jobDurationSeconds *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scroll_otc",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Total background job executions",
		}, []string{"job", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scroll_otc",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})
	})
}

type Scheduler struct {
	workers int
	queue   chan Job

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	pending map[string]struct{}

	wg sync.WaitGroup
}

func NewScheduler(workers, queueSize int) *Scheduler {
	initMetrics()

	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 8
	}

	return &Scheduler{
		workers: workers,
		queue:   make(chan Job, queueSize),
		pending: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			err := s.runWithRetries(job)
			s.release(job.Name)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error(err, "Background job failed", map[string]interface{}{"job": job.Name})
			}
		}
	}
}

func (s *Scheduler) runWithRetries(job Job) error {
	var err error
	for attempt := 0; attempt <= job.Retries; attempt++ {
		if attempt > 0 && job.Backoff > 0 {
			timer := time.NewTimer(job.Backoff)
			select {
			case <-timer.C:
			case <-s.ctx.Done():
				timer.Stop()
				return context.Canceled
			}
		}

		if err = s.run(job); err == nil || errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("Background job attempt failed", map[string]interface{}{"job": job.Name, "attempt": attempt + 1, "error": err.Error()})
	}
	return err
}

func (s *Scheduler) run(job Job) (err error) {
	start := time.Now()
	status := "success"

	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			status = "canceled"
		default:
			status = "failure"
		}
		jobDurationSeconds.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())
		jobRunsTotal.WithLabelValues(job.Name, status).Inc()
	}()

	if ctx.Err() != nil {
		return context.Canceled
	}
	return job.Run(ctx)
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	delete(s.pending, name)
	s.mu.Unlock()
}

// Schedule queues job once. It fails with ErrJobPending while a job of the
// same name is still queued or running.
func (s *Scheduler) Schedule(job Job) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if _, exists := s.pending[job.Name]; exists {
		s.mu.Unlock()
		return ErrJobPending
	}
	s.pending[job.Name] = struct{}{}
	ctx := s.ctx
	s.mu.Unlock()

	select {
	case s.queue <- job:
		return nil
	case <-ctx.Done():
		s.release(job.Name)
		return errShuttingDown
	}
}

// Every schedules job immediately and then once per interval until the
// scheduler shuts down. Ticks that find the previous run still pending are
// skipped.
func (s *Scheduler) Every(job Job, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	if err := s.Schedule(job); err != nil {
		return err
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Schedule(job); err != nil && !errors.Is(err, ErrJobPending) {
					return
				}
			}
		}
	}()

	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) PendingJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
