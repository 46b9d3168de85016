package engine

import "fmt"

// Color is the side a piece belongs to.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// forward is the row delta of a pawn advance. Row 0 is black's back rank.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) homeRow() int {
	if c == White {
		return Size - 1
	}
	return 0
}

func (c Color) pawnRow() int {
	return c.homeRow() + c.forward()
}

func (c Color) lastRow() int {
	if c == White {
		return 0
	}
	return Size - 1
}

// Kind tags the movement rule of a piece.
type Kind int

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Letter is the algebraic notation prefix; pawns have none.
func (k Kind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range []Kind{Pawn, Knight, Bishop, Rook, Queen, King} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}
