package allocation

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoEntitiesToAllocate = errors.New("no entities to allocate")
	ErrInvalidBudget        = errors.New("invalid total budget")
)
