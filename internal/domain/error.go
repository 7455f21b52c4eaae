package domain

import "errors"

var (
	// Common domain errors
	ErrJobNotFound     = errors.New("job not found")
	ErrResultNotFound  = errors.New("result not found")
	ErrResultNotReady  = errors.New("result not ready")
	ErrJobFailed       = errors.New("job failed")
	ErrInvalidArgument = errors.New("invalid argument")
)
