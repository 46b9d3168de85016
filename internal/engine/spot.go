package engine

// Spot is one board cell. It holds at most one piece handle.
type Spot struct {
	piece PieceID
}

func (s Spot) IsOccupied() bool {
	return s.piece != NoPiece
}

func (s Spot) PieceID() PieceID {
	return s.piece
}
