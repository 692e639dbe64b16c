package domain

import "errors"

var (
	// ErrNotFound is returned when a requested task does not exist
	ErrNotFound = errors.New("task not found")

	// ErrNoReader is returned when no registered reader can handle a source path
	ErrNoReader = errors.New("no reader for source")

	// ErrNoSource is returned when an operation needs a loaded source and none is known
	ErrNoSource = errors.New("no source loaded")

	// ErrEmptySource is returned when a source yields no valid tasks
	ErrEmptySource = errors.New("source contains no tasks")

	// ErrBadParamInput is returned when request parameters are invalid
	ErrBadParamInput = errors.New("invalid parameters")
)
