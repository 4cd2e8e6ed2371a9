package resolver

import (
	"errors"
	"strings"
)

// ErrAliasCycle is matched by errors.Is for any *AliasCycleError.
var ErrAliasCycle = errors.New("alias cycle")

// AliasCycleError reports a chain of alias keys that leads back to itself.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return "alias cycle: " + strings.Join(e.Chain, " -> ")
}

// Is makes errors.Is(err, ErrAliasCycle) true.
func (e *AliasCycleError) Is(target error) bool {
	return target == ErrAliasCycle
}
