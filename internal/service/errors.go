package service

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when an inference request is already outstanding.
	ErrBusy = errors.New("an inference request is already in progress")
	// ErrEmptyQuery is returned for a blank food description.
	ErrEmptyQuery = errors.New("food description is empty")
	// ErrNotFound is returned when an entry id is not in today's log.
	ErrNotFound = errors.New("entry not found")
	// ErrInvalidProfile wraps profile validation failures.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrNoInference is wrapped in an *InferenceError when the tracker was
	// built without an inference service.
	ErrNoInference = errors.New("inference service not configured")
)

// LoadError reports a persisted value that was missing or could not be
// decoded. The owning service falls back to its empty or default state.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed write. The in-memory state already reflects the
// change that could not be persisted.
type SaveError struct {
	Key string
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Key, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// InferenceError reports a failed call to the inference service. No state is
// changed when it is returned.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// IsLoadError reports whether err contains a *LoadError.
func IsLoadError(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}

// IsSaveError reports whether err contains a *SaveError.
func IsSaveError(err error) bool {
	var target *SaveError
	return errors.As(err, &target)
}

// IsInferenceError reports whether err contains an *InferenceError.
func IsInferenceError(err error) bool {
	var target *InferenceError
	return errors.As(err, &target)
}
