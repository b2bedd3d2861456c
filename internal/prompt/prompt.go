package prompt

import (
	"errors"
	"fmt"
)

// ErrAborted is returned when input can no longer be acquired (Ctrl-C, EOF,
// closed terminal). It is never returned for a failed validation.
var ErrAborted = errors.New("prompt aborted")

// Prompter acquires raw answers from the user.
type Prompter interface {
	// Select presents a fixed list and returns the chosen item.
	Select(label string, items []string) (string, error)
	// Input reads one line of free text.
	Input(label string) (string, error)
}

// Validator turns a raw answer into a value or explains why it is rejected.
type Validator[T any] func(raw string) (T, error)

// Ask repeatedly acquires input and applies validate until it succeeds.
// Every rejection is passed to onInvalid (which may be nil) before asking
// again. An acquisition error ends the loop with ErrAborted.
func Ask[T any](acquire func() (string, error), validate Validator[T], onInvalid func(error)) (T, error) {
	for {
		raw, err := acquire()
		if err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %w", ErrAborted, err)
		}
		v, err := validate(raw)
		if err != nil {
			if onInvalid != nil {
				onInvalid(err)
			}
			continue
		}
		return v, nil
	}
}
