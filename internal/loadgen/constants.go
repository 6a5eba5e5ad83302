package loadgen

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Runner configuration constants.
const (
	DefaultBatchSize      = 50
	WorkerChannelFactor   = 2
	AllocationTolerance   = 0.5
	PercentageMultiplier  = 100
	upstreamFailureReason = "rate limited"
	directoryPermission   = 0750
	defaultRequestTimeout = 30 * time.Second
)
