package eval

import (
	"errors"
	"fmt"
)

// Sentinel errors. All of them wrap ErrEvaluation.
var (
	ErrEvaluation = errors.New("evaluation failed")

	// ErrUnknownNode means the tree contains a node shape the evaluator does
	// not recognize. Trees built by the parser package never trigger it.
	ErrUnknownNode = fmt.Errorf("%w: unrecognized node", ErrEvaluation)

	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrEvaluation)
	ErrInvalidSides   = fmt.Errorf("%w: dice must have at least one side", ErrEvaluation)
	ErrDieTooLarge    = fmt.Errorf("%w: too many sides", ErrEvaluation)
	ErrTooManyDice    = fmt.Errorf("%w: too many dice", ErrEvaluation)
	ErrRollOverflow   = fmt.Errorf("%w: roll total overflows", ErrEvaluation)
)
