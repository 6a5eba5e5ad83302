package model

import "errors"

// ErrInvalidRequest marks a malformed campaign request, such as a bad date.
var ErrInvalidRequest = errors.New("invalid campaign request")
