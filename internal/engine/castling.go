package engine

// castleSide describes one castling wing by file.
type castleSide struct {
	kingTo   int
	rookFrom int
	rookTo   int
	// empty files that must be unoccupied between king and rook
	empty []int
	// transit files the king crosses, one step first
	transit []int
}

var (
	kingSide  = castleSide{kingTo: 6, rookFrom: 7, rookTo: 5, empty: []int{5, 6}, transit: []int{5, 6}}
	queenSide = castleSide{kingTo: 2, rookFrom: 0, rookTo: 3, empty: []int{1, 2, 3}, transit: []int{3, 2}}
)

const kingFile = 4

// castlingSideFor classifies a king move as castling: an unmoved king on its
// home square heading for a canonical destination, with an unmoved friendly
// rook in that corner.
func (b *Board) castlingSideFor(king Piece, start, end Coordinate) (castleSide, bool) {
	home := king.Color.homeRow()
	if king.Kind != King || king.Moved || start != (Coordinate{X: kingFile, Y: home}) || end.Y != home {
		return castleSide{}, false
	}
	for _, side := range [...]castleSide{kingSide, queenSide} {
		if end.X != side.kingTo {
			continue
		}
		rook, ok := b.PieceAt(Coordinate{X: side.rookFrom, Y: home})
		if !ok || rook.Kind != Rook || rook.Color != king.Color || rook.Moved {
			return castleSide{}, false
		}
		return side, true
	}
	return castleSide{}, false
}

// castlingMoves returns the castling destinations of an unmoved king that
// pass IsCastlingAvailable.
func (b *Board) castlingMoves(king Piece, from Coordinate) []Move {
	if king.Moved {
		return nil
	}
	var moves []Move
	for _, side := range [...]castleSide{kingSide, queenSide} {
		m := b.NewMove(from, Coordinate{X: side.kingTo, Y: from.Y})
		if m.Castling && b.IsCastlingAvailable(m, king.Color) {
			moves = append(moves, m)
		}
	}
	return moves
}

// IsCastlingAvailable reports whether m ends on one of color's canonical
// castling squares, the squares between king and rook are empty, and neither
// transit square of the king is attacked. It does not check whether king or
// rook have moved; Move classification covers that.
func (b *Board) IsCastlingAvailable(m Move, color Color) bool {
	home := color.homeRow()
	if m.End.Y != home {
		return false
	}
	var side castleSide
	switch m.End.X {
	case kingSide.kingTo:
		side = kingSide
	case queenSide.kingTo:
		side = queenSide
	default:
		return false
	}
	for _, x := range side.empty {
		if b.HasPiece(Coordinate{X: x, Y: home}) {
			return false
		}
	}
	for _, x := range side.transit {
		if b.probeCheck(Move{Start: m.Start, End: Coordinate{X: x, Y: home}}, color) {
			return false
		}
	}
	return true
}

func (m Move) castlingRookMove() Move {
	side := kingSide
	if m.End.X == queenSide.kingTo {
		side = queenSide
	}
	return Move{
		Start: Coordinate{X: side.rookFrom, Y: m.Start.Y},
		End:   Coordinate{X: side.rookTo, Y: m.Start.Y},
	}
}

// CastlingRookMove returns the rook relocation that accompanies a castling
// move. ok is false for any other move.
func (m Move) CastlingRookMove() (Move, bool) {
	if !m.Castling {
		return Move{}, false
	}
	return m.castlingRookMove(), true
}
