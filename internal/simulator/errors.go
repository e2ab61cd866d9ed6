package simulator

import (
	"errors"
	"fmt"

	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/models"
)

// ErrDeadlock is matched by every *DeadlockError
var ErrDeadlock = errors.New("simulation deadlock")

// DeadlockError reports a step whose precondition never held within the
// wait ceiling
type DeadlockError struct {
	Action    models.ActionCode
	Tick      int
	Waited    int
	Condition economy.SkipReason
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock on %s at tick %d: %s after waiting %d ticks",
		e.Action, e.Tick, e.Condition, e.Waited)
}

func (e *DeadlockError) Unwrap() error { return ErrDeadlock }
