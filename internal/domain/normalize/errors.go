package normalize

import (
	"errors"

	"github.com/okian/adlens/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrUpstreamAnalytics   = errors.New("upstream analytics error")
	ErrDecode              = errors.New("malformed analytics payload")
)

// UpstreamError carries the connector's error message unchanged.
type UpstreamError struct {
	Platform model.Platform
	Message  string
}

func (e *UpstreamError) Error() string { return e.Message }

// Is lets errors.Is match ErrUpstreamAnalytics.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamAnalytics }
