package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when a job is registered after Start
	ErrAlreadyRunning = errors.New("scheduler is already running")
)
