package container

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("container: definition not found")

// ErrCycle is matched by every *CycleError via errors.Is.
var ErrCycle = errors.New("container: circular dependency")

// NotFoundError is returned when an id has no binding and cannot be autowired.
//
// ID is always the id originally handed to Get; when the failure happened
// deeper in the dependency graph, Cause holds the nested error.
type NotFoundError struct {
	ID    string
	Cause error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("container: no definition was found for %q", e.ID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Cause }

// CycleError is returned when resolution re-enters an id that is still being built.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "container: circular dependency detected: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

func notFound(id string, cause error) error {
	return &NotFoundError{ID: id, Cause: cause}
}
