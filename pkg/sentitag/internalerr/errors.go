package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidMapping = errors.New("invalid category mapping")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
