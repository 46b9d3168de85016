package model

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrGameOver      = errors.New("game is over")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotYourPiece  = errors.New("not your piece")
	ErrOutOfTime     = errors.New("out of time")
	ErrAlreadyQueued = errors.New("player already in queue")
)
