package service

import (
	"context"
	"errors"

	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/normalize"
	"github.com/okian/adlens/internal/domain/types"
)

// ErrEmptyBatch is returned when a multi-campaign call carries no campaigns.
var ErrEmptyBatch = errors.New("no campaigns supplied")

// ErrorKind classifies a per-campaign failure for batch responses and metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, normalize.ErrUnsupportedPlatform):
		return types.KindUnsupportedPlatform
	case errors.Is(err, normalize.ErrUpstreamAnalytics):
		return types.KindUpstreamError
	case errors.Is(err, normalize.ErrDecode):
		return types.KindDecodeError
	case errors.Is(err, model.ErrInvalidRequest), errors.Is(err, allocation.ErrInvalidBudget):
		return types.KindInvalidRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return types.KindCanceled
	default:
		return types.KindInternal
	}
}
