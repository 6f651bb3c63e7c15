package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidState    = errors.New("invalid state")
	ErrUndefinedResult = errors.New("undefined result")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyTrained  = fmt.Errorf("already trained: %w", ErrInvalidState)
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNotFound        = errors.New("not found")
)
