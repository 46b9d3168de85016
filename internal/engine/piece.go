package engine

// PieceID is a stable handle to a piece record owned by a Board. Handles are
// never reused, so two handles compare equal only for the same piece.
type PieceID int

// NoPiece is the zero handle held by empty spots.
const NoPiece PieceID = 0

type Piece struct {
	ID    PieceID `json:"id"`
	Kind  Kind    `json:"type"`
	Color Color   `json:"color"`
	Moved bool    `json:"hasMoved"`
}

type pieceRecord struct {
	Piece
	at      Coordinate
	onBoard bool
}

var (
	knightOffsets = [...]Coordinate{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingOffsets   = [...]Coordinate{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	rookDirs      = kingOffsets[:4]
	bishopDirs    = kingOffsets[4:]
	queenDirs     = kingOffsets[:]
)

// candidates returns the pseudo-legal moves of p standing on from. Castling
// destinations are only offered when withCastling is set; attack detection
// leaves them out since a castling king never captures.
func (b *Board) candidates(p Piece, from Coordinate, withCastling bool) []Move {
	switch p.Kind {
	case Pawn:
		return b.pawnMoves(p, from)
	case Knight:
		return b.stepMoves(p, from, knightOffsets[:])
	case Bishop:
		return b.slideMoves(p, from, bishopDirs)
	case Rook:
		return b.slideMoves(p, from, rookDirs)
	case Queen:
		return b.slideMoves(p, from, queenDirs)
	case King:
		moves := b.stepMoves(p, from, kingOffsets[:])
		if withCastling {
			moves = append(moves, b.castlingMoves(p, from)...)
		}
		return moves
	}
	panic("engine: unknown piece kind " + p.Kind.String())
}

func (b *Board) pawnMoves(p Piece, from Coordinate) []Move {
	var moves []Move
	dir := p.Color.forward()

	// Check move forward 1, then 2 if not moved
	one := from.Add(0, dir)
	if one.InBounds() && !b.HasPiece(one) {
		moves = append(moves, b.NewMove(from, one))
		two := from.Add(0, 2*dir)
		if !p.Moved && two.InBounds() && !b.HasPiece(two) {
			moves = append(moves, b.NewMove(from, two))
		}
	}

	for _, dx := range [...]int{-1, 1} {
		to := from.Add(dx, dir)
		if !to.InBounds() {
			continue
		}
		target, ok := b.PieceAt(to)
		if ok && target.Color != p.Color {
			moves = append(moves, b.NewMove(from, to))
			continue
		}
		if _, ep := b.enPassantVictim(p, from, to); !ok && ep {
			moves = append(moves, b.NewMove(from, to))
		}
	}
	return moves
}

func (b *Board) stepMoves(p Piece, from Coordinate, offsets []Coordinate) []Move {
	var moves []Move
	for _, off := range offsets {
		to := from.Add(off.X, off.Y)
		if !to.InBounds() {
			continue
		}
		if target, ok := b.PieceAt(to); !ok || target.Color != p.Color {
			moves = append(moves, b.NewMove(from, to))
		}
	}
	return moves
}

func (b *Board) slideMoves(p Piece, from Coordinate, dirs []Coordinate) []Move {
	var moves []Move
	for _, dir := range dirs {
		for to := from.Add(dir.X, dir.Y); to.InBounds(); to = to.Add(dir.X, dir.Y) {
			target, ok := b.PieceAt(to)
			if !ok {
				moves = append(moves, b.NewMove(from, to))
				continue
			}
			if target.Color != p.Color {
				moves = append(moves, b.NewMove(from, to))
			}
			break
		}
	}
	return moves
}

// enPassantVictim reports where the pawn captured by an en passant move
// from→to would stand. The victim must be an enemy pawn that made the last
// recorded move as a double step onto the square beside from.
func (b *Board) enPassantVictim(p Piece, from, to Coordinate) (Coordinate, bool) {
	if p.Kind != Pawn || b.lastMove == nil {
		return Coordinate{}, false
	}
	if abs(to.X-from.X) != 1 || to.Y-from.Y != p.Color.forward() {
		return Coordinate{}, false
	}
	beside := Coordinate{X: to.X, Y: from.Y}
	victim, ok := b.PieceAt(beside)
	if !ok || victim.Kind != Pawn || victim.Color == p.Color {
		return Coordinate{}, false
	}
	last := b.lastMove
	if last.End != beside || last.Start.X != beside.X || abs(last.End.Y-last.Start.Y) != 2 {
		return Coordinate{}, false
	}
	return beside, true
}
