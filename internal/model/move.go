package model

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

type WSMove struct {
	From engine.Coordinate `json:"from"`
	To   engine.Coordinate `json:"to"`
}

type CastleRookMove struct {
	From engine.Coordinate `json:"from"`
	To   engine.Coordinate `json:"to"`
}

type Ply struct {
	Piece          engine.Piece      `json:"piece"`
	From           engine.Coordinate `json:"from"`
	To             engine.Coordinate `json:"to"`
	CapturedPiece  *engine.Piece     `json:"capturedPiece"`
	CastleRookMove *CastleRookMove   `json:"castleRookMove"`
	Promotion      *engine.Kind      `json:"promotion"`
	Notation       string            `json:"notation"`
}

// Move pairs white's ply with black's reply. A game set up with black to
// move starts with an entry holding only BlackPly.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From engine.Coordinate `json:"from"`
	To   engine.Coordinate `json:"to"`
}

// makePly describes m before it is applied to b.
func makePly(b *engine.Board, m engine.Move) Ply {
	piece, _ := b.PieceAt(m.Start)
	ply := Ply{
		Piece: piece,
		From:  m.Start,
		To:    m.End,
	}
	if captured, ok := capturedBy(b, m); ok {
		ply.CapturedPiece = &captured
	}
	if rookMove, ok := m.CastlingRookMove(); ok {
		ply.CastleRookMove = &CastleRookMove{From: rookMove.Start, To: rookMove.End}
	}
	if m.Promotion {
		queen := engine.Queen
		ply.Promotion = &queen
	}
	ply.Notation = notation(b, m, piece, ply.CapturedPiece != nil)
	return ply
}

func capturedBy(b *engine.Board, m engine.Move) (engine.Piece, bool) {
	if m.EnPassant {
		return b.PieceAt(engine.NewCoordinate(m.End.X, m.Start.Y))
	}
	return b.PieceAt(m.End)
}

func notation(b *engine.Board, m engine.Move, piece engine.Piece, capture bool) string {
	if m.Castling {
		if m.End.X < m.Start.X {
			return "O-O-O"
		}
		return "O-O"
	}
	prefix := piece.Kind.Letter()
	if piece.Kind == engine.Pawn {
		if capture {
			prefix = m.Start.File()
		}
	} else {
		prefix += disambiguation(b, m, piece)
	}
	captureMark := ""
	if capture {
		captureMark = "x"
	}
	suffix := ""
	if m.Promotion {
		suffix = "=" + engine.Queen.Letter()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, captureMark, m.End, suffix)
}

// disambiguation names the file, rank or square of the mover when another
// piece of the same kind could also reach the destination.
func disambiguation(b *engine.Board, m engine.Move, piece engine.Piece) string {
	sameFile, sameRank, rivals := false, false, false
	for _, other := range b.AllLegalMovesByColor(piece.Color) {
		if other.End != m.End || other.Start == m.Start {
			continue
		}
		if p, ok := b.PieceAt(other.Start); !ok || p.Kind != piece.Kind {
			continue
		}
		rivals = true
		sameFile = sameFile || other.Start.X == m.Start.X
		sameRank = sameRank || other.Start.Y == m.Start.Y
	}
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return m.Start.File()
	case !sameRank:
		return m.Start.String()[1:]
	}
	return m.Start.String()
}
