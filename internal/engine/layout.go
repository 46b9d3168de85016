package engine

import (
	"fmt"

	"github.com/notnil/chess"
)

// Placement describes a piece to be created by NewBoardFromLayout.
type Placement struct {
	Kind  Kind
	Color Color
	Moved bool
}

// Layout is a custom starting position indexed [y][x]; nil cells are empty.
type Layout [Size][Size]*Placement

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardLayout is the usual starting position.
func StandardLayout() Layout {
	var l Layout
	for x := 0; x < Size; x++ {
		l[Black.homeRow()][x] = &Placement{Kind: backRank[x], Color: Black}
		l[Black.pawnRow()][x] = &Placement{Kind: Pawn, Color: Black}
		l[White.pawnRow()][x] = &Placement{Kind: Pawn, Color: White}
		l[White.homeRow()][x] = &Placement{Kind: backRank[x], Color: White}
	}
	return l
}

var (
	fromNotnilKind = map[chess.PieceType]Kind{
		chess.Pawn: Pawn, chess.Knight: Knight, chess.Bishop: Bishop,
		chess.Rook: Rook, chess.Queen: Queen, chess.King: King,
	}
	notnilPieces = map[Color]map[Kind]chess.Piece{
		White: {
			Pawn: chess.WhitePawn, Knight: chess.WhiteKnight, Bishop: chess.WhiteBishop,
			Rook: chess.WhiteRook, Queen: chess.WhiteQueen, King: chess.WhiteKing,
		},
		Black: {
			Pawn: chess.BlackPawn, Knight: chess.BlackKnight, Bishop: chess.BlackBishop,
			Rook: chess.BlackRook, Queen: chess.BlackQueen, King: chess.BlackKing,
		},
	}
)

func toSquare(c Coordinate) chess.Square {
	return chess.Square(c.X + (Size-1-c.Y)*Size)
}

func fromSquare(sq chess.Square) Coordinate {
	return Coordinate{X: int(sq.File()), Y: Size - 1 - int(sq.Rank())}
}

func fromNotnilColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func decodeFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// LayoutFromFEN reads the placement and castling fields of a FEN record.
// Pawns off their starting row count as moved; kings and rooks count as
// unmoved only when a castling right still involves them.
func LayoutFromFEN(fen string) (Layout, error) {
	pos, err := decodeFEN(fen)
	if err != nil {
		return Layout{}, err
	}
	return layoutFromPosition(pos), nil
}

func layoutFromPosition(pos *chess.Position) Layout {
	var l Layout
	rights := pos.CastleRights()
	for sq, pc := range pos.Board().SquareMap() {
		kind, ok := fromNotnilKind[pc.Type()]
		if !ok {
			continue
		}
		c := fromSquare(sq)
		color := fromNotnilColor(pc.Color())
		pl := &Placement{Kind: kind, Color: color, Moved: true}
		home := color.homeRow()
		nc := chess.White
		if color == Black {
			nc = chess.Black
		}
		switch kind {
		case Pawn:
			pl.Moved = c.Y != color.pawnRow()
		case King:
			pl.Moved = c != (Coordinate{X: kingFile, Y: home}) ||
				!(rights.CanCastle(nc, chess.KingSide) || rights.CanCastle(nc, chess.QueenSide))
		case Rook:
			switch c {
			case Coordinate{X: kingSide.rookFrom, Y: home}:
				pl.Moved = !rights.CanCastle(nc, chess.KingSide)
			case Coordinate{X: queenSide.rookFrom, Y: home}:
				pl.Moved = !rights.CanCastle(nc, chess.QueenSide)
			}
		default:
			pl.Moved = false
		}
		l[c.Y][c.X] = pl
	}
	return l
}

// NewBoardFromFEN builds a board from a FEN record. An en passant target
// square is turned into the double step that produced it, so the capture is
// available on the first ply.
func NewBoardFromFEN(fen string) (*Board, error) {
	pos, err := decodeFEN(fen)
	if err != nil {
		return nil, err
	}
	b := NewBoardFromLayout(layoutFromPosition(pos))
	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		target := fromSquare(ep)
		// a target on the white side of the board was left by a white pawn
		dir := White.forward()
		if target.Y < Size/2 {
			dir = Black.forward()
		}
		b.lastMove = &Move{Start: target.Add(0, -dir), End: target.Add(0, dir)}
	}
	return b, nil
}

// PlacementFEN renders the piece placement field of a FEN record.
func (b *Board) PlacementFEN() string {
	return b.notnilBoard().String()
}

// String draws the board as text, rank 8 at the top.
func (b *Board) String() string {
	return b.notnilBoard().Draw()
}

func (b *Board) notnilBoard() *chess.Board {
	squares := make(map[chess.Square]chess.Piece)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			c := Coordinate{X: x, Y: y}
			if p, ok := b.PieceAt(c); ok {
				squares[toSquare(c)] = notnilPieces[p.Color][p.Kind]
			}
		}
	}
	return chess.NewBoard(squares)
}

// TurnFromFEN returns the side to move of a FEN record.
func TurnFromFEN(fen string) (Color, error) {
	pos, err := decodeFEN(fen)
	if err != nil {
		return White, err
	}
	return fromNotnilColor(pos.Turn()), nil
}
