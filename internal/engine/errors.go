package engine

import "errors"

var (
	ErrNoPiece       = errors.New("no piece at square")
	ErrIllegalMove   = errors.New("illegal move")
	ErrOutOfBounds   = errors.New("square out of bounds")
	ErrKingNotFound  = errors.New("king not found")
	ErrInvalidLayout = errors.New("invalid layout")
)
