package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrQuotaExceeded           = errors.New("quota exceeded")
	ErrInvalidAngle            = errors.New("invalid angle")
	ErrProviderFailure         = errors.New("provider failure")
	ErrInvalidUpstreamResponse = errors.New("invalid upstream response")
	ErrDuplicateWorkspace      = errors.New("duplicate workspace")
)
