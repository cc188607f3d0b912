package transitionx

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMove    = errors.New("unknown move")
	ErrInvalidMove    = errors.New("move is not valid in the current state")
	ErrNoZeroCostMove = errors.New("no valid zero-cost move")
	ErrNoValidMove    = errors.New("non-final state has no valid move")
	ErrUnknownKind    = errors.New("action kind not defined by scheme")
	ErrUnknownSection = errors.New("unknown serialization section")
	ErrStepLimit      = errors.New("decoding exceeded step limit")
	ErrScoreVector    = errors.New("scorer returned too few scores")
)

// NoZeroCostMoveError reports that no valid move is consistent with the gold
// structure. The gold is unreachable under the registered move set; the input
// should be skipped, not retried.
type NoZeroCostMoveError struct {
	// Step is the number of moves applied before the dead end, or -1 when
	// the error comes from a bare EvaluateCosts call.
	Step int
	// Valid is the number of valid moves at that point.
	Valid int
	// Moves is the size of the action table.
	Moves int
}

func (e *NoZeroCostMoveError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("%s (%d of %d moves valid)", ErrNoZeroCostMove, e.Valid, e.Moves)
	}
	return fmt.Sprintf("%s at step %d (%d of %d moves valid)", ErrNoZeroCostMove, e.Step, e.Valid, e.Moves)
}

func (e *NoZeroCostMoveError) Unwrap() error {
	return ErrNoZeroCostMove
}
