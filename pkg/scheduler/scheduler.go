// Package scheduler runs independent jobs on self-delaying timers.
//
// Every job owns its own loop: it runs, waits a fixed interval measured from
// the end of the pass and runs again, so passes of the same job never overlap.
// A pass that fails halts its job; the remaining jobs keep running.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the delay between the end of one pass and the start of the next
const DefaultInterval = 5 * time.Minute

// State is the phase a job is currently in
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateReconciling State = "reconciling"
	StateWaiting     State = "waiting"
	StateHalted      State = "halted"
)

// Reporter lets a running job publish the phase it has entered
type Reporter func(State)

// Job is one unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context, report Reporter) error
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the wall clock used between passes
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithLogger sets the logger used for pass and state reporting
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler owns a set of jobs and their timers
type Scheduler struct {
	interval time.Duration
	clock    Clock
	logger   *slog.Logger

	mu     sync.RWMutex
	jobs   []Job
	states map[string]State
}

// New creates a scheduler that waits interval between passes of each job
func New(interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scheduler{
		interval: interval,
		clock:    RealClock{},
		logger:   slog.Default(),
		states:   make(map[string]State),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Add registers a job; jobs must have distinct names
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.states[job.Name()]; exists {
		return fmt.Errorf("job %q is already registered", job.Name())
	}
	s.jobs = append(s.jobs, job)
	s.states[job.Name()] = StateIdle
	return nil
}

// State reports the current state of the named job
func (s *Scheduler) State(name string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[name]
}

// Interval returns the delay between passes
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Tick runs a single pass of the named job synchronously without rescheduling it
func (s *Scheduler) Tick(ctx context.Context, name string) error {
	job := s.job(name)
	if job == nil {
		return fmt.Errorf("job %q is not registered", name)
	}

	err := s.runPass(ctx, job)
	if err != nil {
		s.setState(name, StateHalted)
		return err
	}
	s.setState(name, StateIdle)
	return nil
}

// Run starts every registered job on its own loop and blocks until the
// context is cancelled or every job has halted. Cancellation returns nil;
// when all jobs halt their errors are joined.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.RLock()
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	if len(jobs) == 0 {
		return errors.New("no jobs registered")
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			if err := s.loop(ctx, job); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
				mu.Unlock()
			}
		}(job)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return errors.Join(errs...)
}

// loop runs the job until it fails or ctx is cancelled
func (s *Scheduler) loop(ctx context.Context, job Job) error {
	name := job.Name()

	for {
		if err := s.runPass(ctx, job); err != nil {
			if ctx.Err() != nil {
				s.setState(name, StateIdle)
				return nil
			}
			s.setState(name, StateHalted)
			s.logger.Error("sync pass failed, job halted",
				"job", name, "error", err, "transient", isTransient(err))
			return err
		}

		s.setState(name, StateWaiting)
		s.logger.Debug("next pass scheduled", "job", name, "in", s.interval)

		select {
		case <-ctx.Done():
			s.setState(name, StateIdle)
			return nil
		case <-s.clock.After(s.interval):
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context, job Job) error {
	name := job.Name()
	started := time.Now()

	s.setState(name, StateFetching)
	err := job.Run(ctx, func(state State) {
		s.setState(name, state)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("sync pass finished", "job", name, "elapsed", time.Since(started))
	return nil
}

func (s *Scheduler) job(name string) Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.Name() == name {
			return job
		}
	}
	return nil
}

func (s *Scheduler) setState(name string, state State) {
	s.mu.Lock()
	s.states[name] = state
	s.mu.Unlock()
}

// isTransient reports whether any error in the chain marks itself as retryable
func isTransient(err error) bool {
	var retryable interface{ IsRetryable() bool }
	return errors.As(err, &retryable) && retryable.IsRetryable()
}
