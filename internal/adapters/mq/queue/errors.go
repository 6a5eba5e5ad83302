package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueFull   = errors.New("analysis queue full")
	ErrQueueClosed = errors.New("analysis queue closed")
)
