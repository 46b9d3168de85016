package engine

import "fmt"

// Move is a transition between two squares together with its classification
// against the board it was built from. Build moves with Board.NewMove; a
// literal Move with no flags is applied as an ordinary relocation.
type Move struct {
	Start     Coordinate `json:"from"`
	End       Coordinate `json:"to"`
	Castling  bool       `json:"castling,omitempty"`
	EnPassant bool       `json:"enPassant,omitempty"`
	Promotion bool       `json:"promotion,omitempty"`
}

// NewMove classifies start→end against the current position. It does not
// check legality.
func (b *Board) NewMove(start, end Coordinate) Move {
	m := Move{Start: start, End: end}
	p, ok := b.PieceAt(start)
	if !ok || !end.InBounds() {
		return m
	}
	switch p.Kind {
	case King:
		_, m.Castling = b.castlingSideFor(p, start, end)
	case Pawn:
		if !b.HasPiece(end) {
			_, m.EnPassant = b.enPassantVictim(p, start, end)
		}
		m.Promotion = end.Y == p.Color.lastRow()
	}
	return m
}

// Inverted swaps start and end. It is used to undo a simulated relocation
// and carries no classification.
func (m Move) Inverted() Move {
	return Move{Start: m.End, End: m.Start}
}

func (m Move) String() string {
	return fmt.Sprintf("%s%s", m.Start, m.End)
}

// same reports whether o is m with the same classification, so a vetted
// move takes the same MoveTo branch it was generated with.
func (m Move) same(o Move) bool {
	return m == o
}
