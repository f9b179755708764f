package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the drafter cannot be constructed
	// from the given configuration.
	ErrInvalidConfig = errors.New("invalid drafter configuration")

	// ErrEmptyItem is returned when an item has no name to describe.
	ErrEmptyItem = errors.New("item name cannot be empty")

	// ErrInvalidResponse is returned when the model replies with nothing usable.
	ErrInvalidResponse = errors.New("invalid response from model")

	// ErrContentBlocked is returned when safety filters block the reply.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrTransientFailure is returned when retries are exhausted or the
	// context ends while waiting to retry.
	ErrTransientFailure = errors.New("transient drafting failure")
)
