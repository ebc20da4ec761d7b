package game

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks bugs in the calling code, as opposed to bad
// player input (which is a normal invalid outcome).
var ErrContractViolation = errors.New("game contract violation")

var (
	ErrGameOver         = fmt.Errorf("%w: game is over", ErrContractViolation)
	ErrInvalidMaxRounds = fmt.Errorf("%w: max rounds must be positive", ErrContractViolation)

	ErrInvalidStrategyMove = fmt.Errorf("%w: strategy played an unavailable move", ErrContractViolation)
)
