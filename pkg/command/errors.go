package command

import "errors"

// Errors reported by the dispatcher.
var (
	ErrUnknownCommand = errors.New("unknown command")
)
