package gateway

import "errors"

var (
	// ErrUnknownCommand is returned for a command name not in the table.
	// Callers render it as a normal, non-fatal response.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgument is returned when a required command argument is
	// missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotImplemented marks commands handled by the client layer.
	ErrNotImplemented = errors.New("not implemented")
)
