package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probePositions avoids en passant captures that uncover a check along the
// capturing row; the relocation probe does not lift the captured pawn.
var probePositions = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
	"r3k2r/pppq1ppp/2n1bn2/3pp3/1b1PP3/2NBBN2/PPPQ1PPP/R3K2R w KQkq - 0 8",
	"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r7/1P6/8/8/8/8/8/k3K3 w - - 0 1",
}

func TestScholarsMate(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	assert.True(t, b.IsInCheck(Black))
	assert.True(t, b.IsCheckMate(Black))
	assert.False(t, b.IsStalemate(Black))
	assert.Empty(t, b.AllLegalMovesByColor(Black))

	status, err := b.Status(Black)
	require.NoError(t, err)
	assert.Equal(t, Checkmate, status)
}

func TestStalemate(t *testing.T) {
	b := boardFromFEN(t, "k7/8/1Q6/8/8/8/8/2K5 b - - 0 1")

	assert.False(t, b.IsInCheck(Black))
	assert.True(t, b.IsStalemate(Black))
	assert.False(t, b.IsCheckMate(Black))

	status, err := b.Status(Black)
	require.NoError(t, err)
	assert.Equal(t, Stalemate, status)

	status, err = b.Status(White)
	require.NoError(t, err)
	assert.Equal(t, Ongoing, status)
}

func TestCheckIsNotMate(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "f7f6", "d1h5")

	status, err := b.Status(Black)
	require.NoError(t, err)
	assert.Equal(t, Check, status)
	assert.Equal(t, []Move{b.NewMove(sq(t, "g7"), sq(t, "g6"))}, b.AllLegalMovesByColor(Black))
}

func TestMissingKing(t *testing.T) {
	var l Layout
	l[7][4] = &Placement{Kind: King, Color: White}
	l[0][0] = &Placement{Kind: Rook, Color: Black}
	b := NewBoardFromLayout(l)

	_, ok := b.FindKing(Black)
	assert.False(t, ok)
	assert.False(t, b.IsInCheck(Black))
	_, err := b.Status(Black)
	assert.ErrorIs(t, err, ErrKingNotFound)
}

func TestPinnedPieceHasNoLegalMoves(t *testing.T) {
	b := boardFromFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	bishop, _ := b.PieceAt(sq(t, "e2"))

	assert.NotEmpty(t, b.AvailableMovesFor(bishop.ID))
	assert.Empty(t, b.LegalMovesFor(bishop.ID))
	assert.True(t, b.IsInCheckAfterThisMove(b.NewMove(sq(t, "e2"), sq(t, "d3")), White))
	assert.False(t, b.IsMoveAvailable(b.NewMove(sq(t, "e2"), sq(t, "d3"))))
}

func TestProbeRestoresBoard(t *testing.T) {
	for _, fen := range probePositions {
		t.Run(fen, func(t *testing.T) {
			b := boardFromFEN(t, fen)
			for _, color := range []Color{White, Black} {
				for _, m := range b.AllAvailableMovesByColor(color) {
					spots, pieces := b.spots, append([]pieceRecord(nil), b.pieces...)
					b.probeCheck(m, color)
					require.Equal(t, spots, b.spots, m.String())
					require.Equal(t, pieces, b.pieces, m.String())
				}
			}
		})
	}
}

func TestLegalMovesKeepKingSafe(t *testing.T) {
	for _, fen := range probePositions {
		t.Run(fen, func(t *testing.T) {
			b := boardFromFEN(t, fen)
			for _, color := range []Color{White, Black} {
				for _, m := range b.AllLegalMovesByColor(color) {
					if m.Castling {
						continue
					}
					c := b.Clone()
					c.MoveTo(&m)
					assert.False(t, c.IsInCheck(color), m.String())
				}
			}
		})
	}
}

func TestMovesNeverAddPieces(t *testing.T) {
	for _, fen := range probePositions {
		t.Run(fen, func(t *testing.T) {
			b := boardFromFEN(t, fen)
			for _, color := range []Color{White, Black} {
				for _, m := range b.AllLegalMovesByColor(color) {
					want := b.NumberOfPieces()
					if b.HasPiece(m.End) || m.EnPassant {
						want--
					}
					c := b.Clone()
					c.MoveTo(&m)
					assert.Equal(t, want, c.NumberOfPieces(), m.String())
				}
			}
		})
	}
}

func TestNoMovesMeansMateOrStalemate(t *testing.T) {
	for _, fen := range []string{
		"k7/8/1Q6/8/8/8/8/2K5 b - - 0 1",
		"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4",
		"7k/5KQ1/8/8/8/8/8/8 b - - 0 1",
	} {
		b := boardFromFEN(t, fen)
		require.Empty(t, b.AllLegalMovesByColor(Black), fen)
		assert.NotEqual(t, b.IsCheckMate(Black), b.IsStalemate(Black), fen)
		assert.Equal(t, b.IsInCheck(Black), b.IsCheckMate(Black), fen)
	}
}
