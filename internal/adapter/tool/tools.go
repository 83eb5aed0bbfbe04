package tool

import (
	"errors"
	"fmt"
)

// ErrInvalidArguments marks failures caused by the model's tool arguments.
// The stage executor reports these back to the model instead of failing.
var ErrInvalidArguments = errors.New("invalid arguments")

func invalidArguments(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}
