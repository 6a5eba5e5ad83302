package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/adlens/internal/domain/allocation"
	"github.com/okian/adlens/internal/domain/insights"
	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/internal/domain/normalize"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrBatchTooLarge = errors.New("too many campaigns")
	ErrUnprocessable = errors.New("unprocessable analytics")
	ErrInternal      = errors.New("internal error")
)

// KindError tags an error with the operation that failed and a sentinel kind
// the handlers map to a status code.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns a KindError without a cause.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind returns a KindError for err. A nil err yields nil.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &KindError{Op: op, Kind: kind, Err: err}
}

// Wrap classifies err by the domain sentinels it carries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, normalize.ErrUnsupportedPlatform),
		errors.Is(err, model.ErrInvalidRequest),
		errors.Is(err, allocation.ErrInvalidBudget):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, normalize.ErrUpstreamAnalytics),
		errors.Is(err, normalize.ErrDecode),
		errors.Is(err, allocation.ErrNoEntitiesToAllocate),
		errors.Is(err, insights.ErrNoPlatforms):
		return WrapKind(op, ErrUnprocessable, err)
	default:
		return WrapKind(op, ErrInternal, err)
	}
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBatchTooLarge):
		return http.StatusBadRequest, "batch_too_large"
	case errors.Is(err, normalize.ErrUnsupportedPlatform):
		return http.StatusBadRequest, "unsupported_platform"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, normalize.ErrUpstreamAnalytics):
		return http.StatusUnprocessableEntity, "upstream_error"
	case errors.Is(err, normalize.ErrDecode):
		return http.StatusUnprocessableEntity, "decode_error"
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity, "unprocessable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// messageOf returns the client-facing message: the cause, without the op prefix.
func messageOf(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		if ke.Err != nil {
			return ke.Err.Error()
		}
		return ke.Kind.Error()
	}
	return err.Error()
}
