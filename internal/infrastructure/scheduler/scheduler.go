package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of periodic maintenance. Run returns the number of rows
// it changed.
type Task interface {
	Name() string
	Run(ctx context.Context, now time.Time) (int64, error)
}

// Recorder receives the outcome of every task run
type Recorder interface {
	RecordMaintenance(ctx context.Context, task string, rows int64, err error)
}

// Config holds sweeper configuration
type Config struct {
	Interval    time.Duration
	TaskTimeout time.Duration
}

// DefaultConfig returns default sweeper configuration
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Minute,
		TaskTimeout: time.Minute,
	}
}

func (c Config) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("%w: task timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Result is the outcome of one task run
type Result struct {
	Task  string
	Rows  int64
	Err   error
	Took  time.Duration
	RanAt time.Time
}

// Option configures a Sweeper
type Option func(*Sweeper)

// WithRecorder reports task outcomes to r
func WithRecorder(r Recorder) Option {
	return func(s *Sweeper) { s.recorder = r }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// Sweeper runs its tasks in order on a fixed interval. A failing task is
// logged and does not stop the ones after it.
type Sweeper struct {
	config   Config
	tasks    []Task
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a sweeper for tasks
func NewSweeper(config Config, tasks []Task, logger *zap.Logger, opts ...Option) (*Sweeper, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{
		config: config,
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the sweep loop. Calling it twice is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Maintenance sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("tasks", len(s.tasks)),
	)
}

// Stop cancels the loop and waits for an in-flight sweep, bounded by ctx
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every task once and returns their results in order
func (s *Sweeper) RunOnce(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.tasks))
	for _, task := range s.tasks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.runTask(ctx, task))
	}
	return results
}

func (s *Sweeper) runTask(ctx context.Context, task Task) Result {
	taskCtx, cancel := context.WithTimeout(ctx, s.config.TaskTimeout)
	defer cancel()

	started := s.now()
	rows, err := task.Run(taskCtx, started)
	res := Result{Task: task.Name(), Rows: rows, Err: err, Took: time.Since(started), RanAt: started}

	if s.recorder != nil {
		s.recorder.RecordMaintenance(ctx, res.Task, rows, err)
	}
	if err != nil {
		s.logger.Error("Maintenance task failed",
			zap.String("task", res.Task),
			zap.Duration("took", res.Took),
			zap.Error(err),
		)
		return res
	}
	if rows > 0 {
		s.logger.Info("Maintenance task completed",
			zap.String("task", res.Task),
			zap.Int64("rows", rows),
			zap.Duration("took", res.Took),
		)
	}
	return res
}
