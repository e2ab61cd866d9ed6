package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTask       = errors.New("duplicate task")
	ErrDanglingPredecessor = errors.New("dangling predecessor")
	ErrCycle               = errors.New("cycle detected")
)

// ModelError reports a malformed task graph. Kind is one of the sentinels
// above so callers can match with errors.Is.
type ModelError struct {
	Kind error
	Msg  string
}

func (e *ModelError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ModelError) Unwrap() error { return e.Kind }

func modelErrorf(kind error, format string, args ...any) error {
	return &ModelError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(remaining []string) error {
	return &ModelError{Kind: ErrCycle, Msg: "unordered tasks: " + strings.Join(remaining, ", ")}
}
