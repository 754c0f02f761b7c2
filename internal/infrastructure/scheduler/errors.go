package scheduler

import "errors"

// Scheduler errors
var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrTaskQueueFull       = errors.New("task queue is full")
	ErrUnknownTaskType     = errors.New("unknown task type")
)
