package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrRefreshInProgress is returned by TriggerNow while another reload runs
	ErrRefreshInProgress = errors.New("dataset refresh already in progress")
)
