package engine

import (
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPlacement(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", b.PlacementFEN())
	assert.Equal(t, 32, b.NumberOfPieces())

	king, ok := b.FindKing(White)
	require.True(t, ok)
	assert.Equal(t, sq(t, "e1"), king)
	king, ok = b.FindKing(Black)
	require.True(t, ok)
	assert.Equal(t, sq(t, "e8"), king)
	assert.Len(t, b.AllPiecesByColor(White), 16)
}

func TestBoardString(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, chess.NewGame().Position().Board().Draw(), b.String())
}

func TestLayoutFromFENMovedFlags(t *testing.T) {
	l, err := LayoutFromFEN("r3k2r/p7/8/8/8/8/1P6/R3K2R w Kq - 0 1")
	require.NoError(t, err)

	at := func(s string) *Placement {
		c := sq(t, s)
		require.NotNil(t, l[c.Y][c.X], s)
		return l[c.Y][c.X]
	}
	assert.False(t, at("e1").Moved)
	assert.False(t, at("h1").Moved)
	assert.True(t, at("a1").Moved)
	assert.False(t, at("e8").Moved)
	assert.False(t, at("a8").Moved)
	assert.True(t, at("h8").Moved)
	assert.False(t, at("a7").Moved)
	assert.False(t, at("b2").Moved)

	c := sq(t, "d4")
	assert.Nil(t, l[c.Y][c.X])
}

func TestLayoutFromFENRejectsGarbage(t *testing.T) {
	_, err := LayoutFromFEN("not a fen")
	assert.ErrorIs(t, err, ErrInvalidLayout)
	_, err = NewBoardFromFEN("")
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestPlacementRoundTrip(t *testing.T) {
	fen := "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	b := boardFromFEN(t, fen)
	assert.Equal(t, strings.Fields(fen)[0], b.PlacementFEN())
}

// Positions without castling rights, en passant targets or pending
// promotions, where the engine must agree with an independent generator.
func TestLegalMoveCountsMatchNotnil(t *testing.T) {
	for _, fen := range []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
		"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w - - 0 1",
		"r1bq1rk1/ppp2ppp/2np1n2/2b1p3/2B1P3/2NP1N2/PPP2PPP/R1BQ1RK1 w - - 0 7",
		"r1bq1rk1/ppp2ppp/2np1n2/2b1p3/2B1P3/2NP1N2/PPP2PPP/R1BQ1RK1 b - - 0 7",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3",
	} {
		t.Run(fen, func(t *testing.T) {
			opt, err := chess.FEN(fen)
			require.NoError(t, err)
			oracle := chess.NewGame(opt)

			turn := White
			if oracle.Position().Turn() == chess.Black {
				turn = Black
			}
			b := boardFromFEN(t, fen)
			assert.Len(t, b.AllLegalMovesByColor(turn), len(oracle.ValidMoves()))
		})
	}
}

func TestTurnFromFEN(t *testing.T) {
	c, err := TurnFromFEN("r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, Black, c)

	_, err = TurnFromFEN("bogus")
	assert.ErrorIs(t, err, ErrInvalidLayout)
}
