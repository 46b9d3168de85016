package engine

// Status summarizes the position from one side's point of view.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// IsInCheck reports whether any pseudo-legal move of the opponent ends on
// color's king. It is false when color has no king.
func (b *Board) IsInCheck(color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	for _, m := range b.movesByColor(color.Opposite(), false) {
		if m.End == king {
			return true
		}
	}
	return false
}

// IsInCheckAfterThisMove simulates the relocation of m, tests color for
// check and restores the board exactly. Castling moves are reported as safe
// here; IsCastlingAvailable probes their transit squares instead.
func (b *Board) IsInCheckAfterThisMove(m Move, color Color) bool {
	if m.Castling {
		return false
	}
	return b.probeCheck(m, color)
}

// probeCheck is the make/unmake round trip: relocate start→end with no
// special-move side effects, evaluate IsInCheck, relocate back and put the
// displaced occupant back on end.
func (b *Board) probeCheck(m Move, color Color) bool {
	if !m.Start.InBounds() || !m.End.InBounds() {
		return false
	}
	displaced := b.spots[m.End.Y][m.End.X].piece
	b.relocate(m.Start, m.End)
	check := b.IsInCheck(color)
	undo := m.Inverted()
	b.relocate(undo.Start, undo.End)
	b.place(displaced, m.End)
	return check
}

func (b *Board) movesByColor(color Color, withCastling bool) []Move {
	var moves []Move
	for _, p := range b.AllPiecesByColor(color) {
		at, _ := b.FindPiece(p.ID)
		moves = append(moves, b.candidates(p, at, withCastling)...)
	}
	return moves
}

// AllAvailableMovesByColor returns every pseudo-legal move of color,
// including moves that leave its own king in check.
func (b *Board) AllAvailableMovesByColor(color Color) []Move {
	return b.movesByColor(color, true)
}

// AllLegalMovesByColor returns the pseudo-legal moves of color that survive
// the king-safety probe.
func (b *Board) AllLegalMovesByColor(color Color) []Move {
	var legal []Move
	for _, m := range b.AllAvailableMovesByColor(color) {
		if !b.IsInCheckAfterThisMove(m, color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// AvailableMovesFor returns the pseudo-legal moves of the piece with handle id.
func (b *Board) AvailableMovesFor(id PieceID) []Move {
	p, ok := b.Piece(id)
	if !ok {
		return nil
	}
	at, _ := b.FindPiece(id)
	return b.candidates(p, at, true)
}

// LegalMovesFor returns the legal moves of the piece with handle id.
func (b *Board) LegalMovesFor(id PieceID) []Move {
	p, ok := b.Piece(id)
	if !ok {
		return nil
	}
	var legal []Move
	for _, m := range b.AvailableMovesFor(id) {
		if !b.IsInCheckAfterThisMove(m, p.Color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalDestinations lists where the piece on c may legally go.
func (b *Board) LegalDestinations(c Coordinate) []Coordinate {
	p, ok := b.PieceAt(c)
	if !ok {
		return nil
	}
	var dests []Coordinate
	for _, m := range b.LegalMovesFor(p.ID) {
		dests = append(dests, m.End)
	}
	return dests
}

// IsMoveAvailable reports whether m's start and end match a legal move of the
// color standing on m's start square.
func (b *Board) IsMoveAvailable(m Move) bool {
	p, ok := b.PieceAt(m.Start)
	if !ok {
		return false
	}
	for _, legal := range b.AllLegalMovesByColor(p.Color) {
		if legal.same(m) {
			return true
		}
	}
	return false
}

func (b *Board) IsCheckMate(color Color) bool {
	return b.IsInCheck(color) && len(b.AllLegalMovesByColor(color)) == 0
}

func (b *Board) IsStalemate(color Color) bool {
	return !b.IsInCheck(color) && len(b.AllLegalMovesByColor(color)) == 0
}

// Status classifies the position for color. A missing king yields
// ErrKingNotFound since no verdict is meaningful then.
func (b *Board) Status(color Color) (Status, error) {
	if _, ok := b.FindKing(color); !ok {
		return Ongoing, ErrKingNotFound
	}
	check := b.IsInCheck(color)
	if len(b.AllLegalMovesByColor(color)) == 0 {
		if check {
			return Checkmate, nil
		}
		return Stalemate, nil
	}
	if check {
		return Check, nil
	}
	return Ongoing, nil
}
