package model

import "errors"

var (
	ErrOutOfBounds  = errors.New("square outside the board")
	ErrIllegalMove  = errors.New("move is not legal")
	ErrNoKing       = errors.New("no king found")
	ErrOccupied     = errors.New("square already occupied")
	ErrRegistryFull = errors.New("side already has sixteen pieces")
	ErrNoPiece      = errors.New("no piece at from square")
	ErrWrongSide    = errors.New("not your turn")
)

// InvariantError reports a broken position invariant. It is raised with
// panic: it means a bug upstream, not a condition callers can handle.
type InvariantError struct {
	Err    error
	Detail string
}

func (e *InvariantError) Error() string {
	return e.Err.Error() + ": " + e.Detail
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
