package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrNoTasks is returned when a sweeper is started without tasks
	ErrNoTasks = errors.New("scheduler has no tasks")
)
