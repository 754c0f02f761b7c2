package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStatus represents the status of a scheduled maintenance task
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusRunning TaskStatus = "RUNNING"
	TaskStatusSuccess TaskStatus = "SUCCESS"
	TaskStatusFailed  TaskStatus = "FAILED"
)

// TaskType identifies a maintenance task
type TaskType string

const (
	TaskInvoiceReconciliation TaskType = "INVOICE_PAID_RECONCILIATION"
	TaskJobArchival           TaskType = "JOB_ARCHIVAL"
	TaskDeltaRejectionPrune   TaskType = "DELTA_REJECTION_PRUNE"
	TaskAppErrorPrune         TaskType = "APP_ERROR_PRUNE"
)

// NightlyTaskTypes returns the tasks that run in the nightly sweep
func NightlyTaskTypes() []TaskType {
	return []TaskType{
		TaskInvoiceReconciliation,
		TaskJobArchival,
		TaskDeltaRejectionPrune,
		TaskAppErrorPrune,
	}
}

// Task represents one scheduled maintenance run
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Status      TaskStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewTask creates a new pending task
func NewTask(taskType TaskType, maxRetries int) *Task {
	return &Task{
		ID:         uuid.New(),
		Type:       taskType,
		Status:     TaskStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the task as running
func (t *Task) Start() {
	now := time.Now()
	t.Status = TaskStatusRunning
	t.StartedAt = &now
	t.Error = ""
}

// Complete marks the task as successful
func (t *Task) Complete() {
	now := time.Now()
	t.Status = TaskStatusSuccess
	t.CompletedAt = &now
}

// Fail marks the task as failed
func (t *Task) Fail(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.CompletedAt = &now
	t.Error = err
}

// ShouldRetry returns true if the task should be retried
func (t *Task) ShouldRetry() bool {
	return t.Status == TaskStatusFailed && t.RetryCount < t.MaxRetries
}

// ScheduleRetry requeues the task after a delay
func (t *Task) ScheduleRetry(delay time.Duration) {
	t.RetryCount++
	t.Status = TaskStatusPending
	nextRetry := time.Now().Add(delay)
	t.NextRetryAt = &nextRetry
	t.Error = ""
}

// TaskExecutor runs a single maintenance task
type TaskExecutor interface {
	Execute(ctx context.Context, task *Task) error
}

// Config holds scheduler configuration
type Config struct {
	Enabled           bool
	DailyRunAt        string // HH:MM, local time
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		DailyRunAt:        "02:00",
		MaxConcurrentJobs: 3,
		JobTimeout:        30 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// Scheduler runs maintenance tasks on a bounded worker pool
type Scheduler struct {
	config   Config
	executor TaskExecutor
	logger   *zap.Logger

	tasks     chan *Task
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor TaskExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger.Named("scheduler"),
		tasks:    make(chan *Task, 100),
	}
}

// Start starts the worker pool and the daily trigger
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.wg.Add(1)
	go s.dailyTrigger(ctx)

	s.logger.Info("scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.String("daily_run_at", s.config.DailyRunAt),
		zap.Duration("task_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.tasks)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a task for execution. The send happens under the mutex so
// Stop cannot close the channel between the running check and the send.
func (s *Scheduler) Submit(task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.tasks <- task:
		s.logger.Debug("task submitted",
			zap.String("task_id", task.ID.String()),
			zap.String("type", string(task.Type)),
		)
		return nil
	default:
		return ErrTaskQueueFull
	}
}

// SubmitNightlyTasks queues the full nightly maintenance sweep
func (s *Scheduler) SubmitNightlyTasks() error {
	for _, taskType := range NightlyTaskTypes() {
		if err := s.Submit(NewTask(taskType, s.config.RetryAttempts)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-s.tasks:
			if !ok {
				return
			}
			s.processTask(ctx, task, workerID)
		}
	}
}

// requeueAfter re-queues a task once its backoff has elapsed, freeing the
// worker in the meantime. Cancellation drops the task.
func (s *Scheduler) requeueAfter(ctx context.Context, task *Task, delay time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			if err := s.Submit(task); err != nil {
				s.logger.Warn("failed to re-queue task for retry",
					zap.String("task_id", task.ID.String()),
					zap.Error(err))
			}
		}
	}()
}

func (s *Scheduler) processTask(ctx context.Context, task *Task, workerID int) {
	// Retried tasks wait out their backoff off the worker pool
	if task.NextRetryAt != nil && time.Now().Before(*task.NextRetryAt) {
		s.requeueAfter(ctx, task, time.Until(*task.NextRetryAt))
		return
	}

	task.Start()
	s.logger.Info("processing task",
		zap.Int("worker_id", workerID),
		zap.String("task_id", task.ID.String()),
		zap.String("type", string(task.Type)),
	)

	taskCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(taskCtx, task); err != nil {
		task.Fail(err.Error())
		s.logger.Error("task failed",
			zap.Int("worker_id", workerID),
			zap.String("task_id", task.ID.String()),
			zap.String("type", string(task.Type)),
			zap.Error(err),
		)

		if task.ShouldRetry() {
			task.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("task scheduled for retry",
				zap.String("task_id", task.ID.String()),
				zap.Int("retry_count", task.RetryCount),
				zap.Int("max_retries", task.MaxRetries),
			)
			s.requeueAfter(ctx, task, s.config.RetryDelay)
		}
		return
	}

	task.Complete()
	s.logger.Info("task completed",
		zap.Int("worker_id", workerID),
		zap.String("task_id", task.ID.String()),
		zap.String("type", string(task.Type)),
	)
}

// dailyTrigger queues the nightly sweep at the configured local time
func (s *Scheduler) dailyTrigger(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := nextRunAfter(time.Now(), s.config.DailyRunAt)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.SubmitNightlyTasks(); err != nil {
				s.logger.Error("failed to submit nightly tasks", zap.Error(err))
			}
		}
	}
}

// nextRunAfter returns the next occurrence of the HH:MM wall-clock time
// strictly after now
func nextRunAfter(now time.Time, runAt string) time.Time {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		at, _ = time.Parse("15:04", "02:00")
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
