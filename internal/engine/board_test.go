package engine

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningMoveCounts(t *testing.T) {
	b := NewBoard()
	for _, color := range []Color{White, Black} {
		moves := b.AllAvailableMovesByColor(color)
		require.Len(t, moves, 20, color.String())

		kinds := map[Kind]int{}
		for _, m := range moves {
			p, ok := b.PieceAt(m.Start)
			require.True(t, ok)
			kinds[p.Kind]++
		}
		assert.Equal(t, 16, kinds[Pawn])
		assert.Equal(t, 4, kinds[Knight])
		assert.Len(t, b.AllLegalMovesByColor(color), 20)
	}
	assert.Len(t, chess.NewGame().ValidMoves(), len(b.AllLegalMovesByColor(White)))
}

func TestPieceAtOutOfRange(t *testing.T) {
	b := NewBoard()
	for _, c := range []Coordinate{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 8, Y: 0}, {X: 3, Y: 9}} {
		_, ok := b.PieceAt(c)
		assert.False(t, ok, c.String())
		assert.False(t, b.HasPiece(c))
	}
}

func TestMoveToNilIsNoop(t *testing.T) {
	b := NewBoard()
	calls := 0
	b.Subscribe(func() { calls++ })
	before := b.PlacementFEN()

	b.MoveTo(nil)

	assert.Zero(t, calls)
	assert.Equal(t, before, b.PlacementFEN())
}

func TestSubscribersRunInRegistrationOrder(t *testing.T) {
	b := NewBoard()
	var order []int
	stop := b.Subscribe(func() { order = append(order, 1) })
	b.Subscribe(func() { order = append(order, 2) })

	play(t, b, "e2e4")
	assert.Equal(t, []int{1, 2}, order)

	stop()
	play(t, b, "e7e5")
	assert.Equal(t, []int{1, 2, 2}, order)
}

func TestTryMoveRejects(t *testing.T) {
	b := NewBoard()
	calls := 0
	b.Subscribe(func() { calls++ })

	_, err := b.TryMove(sq(t, "e2"), sq(t, "e5"))
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = b.TryMove(sq(t, "e4"), sq(t, "e5"))
	assert.ErrorIs(t, err, ErrNoPiece)
	_, err = b.TryMove(sq(t, "e2"), Coordinate{X: 4, Y: -1})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Zero(t, calls)
	assert.Equal(t, 32, b.NumberOfPieces())
}

func TestMovePieceByHandle(t *testing.T) {
	b := NewBoard()
	knight, ok := b.PieceAt(sq(t, "g1"))
	require.True(t, ok)

	b.MovePiece(knight.ID, sq(t, "f3"))

	at, ok := b.FindPiece(knight.ID)
	require.True(t, ok)
	assert.Equal(t, sq(t, "f3"), at)
	moved, _ := b.Piece(knight.ID)
	assert.True(t, moved.Moved)
	assert.True(t, b.IsOnRow(knight.ID, 5))
	last, ok := b.LastMove()
	require.True(t, ok)
	assert.Equal(t, "g1f3", last.String())
}

func TestCaptureRemovesPiece(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "d7d5")
	victim, _ := b.PieceAt(sq(t, "d5"))

	play(t, b, "e4d5")

	assert.Equal(t, 31, b.NumberOfPieces())
	_, ok := b.Piece(victim.ID)
	assert.False(t, ok)
	p, _ := b.PieceAt(sq(t, "d5"))
	assert.Equal(t, White, p.Color)
}

func TestEnPassant(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "a7a6", "e4e5", "d7d5")

	e5 := sq(t, "e5")
	assert.Contains(t, b.LegalDestinations(e5), sq(t, "d6"))

	m, err := b.TryMove(e5, sq(t, "d6"))
	require.NoError(t, err)
	assert.True(t, m.EnPassant)
	assert.False(t, b.HasPiece(sq(t, "d5")))
	assert.False(t, b.HasPiece(e5))
	p, ok := b.PieceAt(sq(t, "d6"))
	require.True(t, ok)
	assert.Equal(t, Pawn, p.Kind)
	assert.Equal(t, White, p.Color)
	assert.Equal(t, 31, b.NumberOfPieces())

	// special moves leave the last ordinary move in place
	last, _ := b.LastMove()
	assert.Equal(t, "d7d5", last.String())
}

func TestEnPassantOnlyOnTheFollowingPly(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "h7h6")

	assert.NotContains(t, b.LegalDestinations(sq(t, "e5")), sq(t, "d6"))
}

func TestPromotion(t *testing.T) {
	b := boardFromFEN(t, "8/P7/8/8/8/8/8/k3K3 w - - 0 1")
	pawn, _ := b.PieceAt(sq(t, "a7"))

	m, err := b.TryMove(sq(t, "a7"), sq(t, "a8"))
	require.NoError(t, err)
	assert.True(t, m.Promotion)

	p, ok := b.PieceAt(sq(t, "a8"))
	require.True(t, ok)
	assert.Equal(t, Queen, p.Kind)
	assert.Equal(t, White, p.Color)
	assert.NotEqual(t, pawn.ID, p.ID)
	_, ok = b.Piece(pawn.ID)
	assert.False(t, ok)
	assert.Equal(t, 3, b.NumberOfPieces())
	assert.True(t, b.IsInCheck(Black))
}

func TestPromotionWithCapture(t *testing.T) {
	b := boardFromFEN(t, "r7/1P6/8/8/8/8/8/k3K3 w - - 0 1")

	m, err := b.TryMove(sq(t, "b7"), sq(t, "a8"))
	require.NoError(t, err)
	assert.True(t, m.Promotion)

	p, _ := b.PieceAt(sq(t, "a8"))
	assert.Equal(t, Queen, p.Kind)
	assert.Equal(t, White, p.Color)
	assert.Equal(t, 3, b.NumberOfPieces())
}

func TestAddAndRemovePiece(t *testing.T) {
	b := NewBoardFromLayout(Layout{})
	calls := 0
	b.Subscribe(func() { calls++ })

	id, err := b.AddPiece(Bishop, Black, sq(t, "c5"))
	require.NoError(t, err)
	p, ok := b.FirstPieceOf(Black, Bishop)
	require.True(t, ok)
	assert.Equal(t, id, p.ID)

	b.RemovePiece(id)
	assert.Zero(t, b.NumberOfPieces())
	b.RemovePiece(id)
	b.RemovePieceAt(sq(t, "c5"))

	_, err = b.AddPiece(Rook, White, Coordinate{X: 9, Y: 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 2, calls)
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	calls := 0
	b.Subscribe(func() { calls++ })

	c := b.Clone()
	play(t, c, "e2e4")

	assert.Zero(t, calls)
	assert.True(t, b.HasPiece(sq(t, "e2")))
	assert.False(t, c.HasPiece(sq(t, "e2")))
	_, ok := b.LastMove()
	assert.False(t, ok)
}

func TestUnclassifiedMoveIsNotAvailable(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     string
	}{
		{name: "castling", fen: "4k3/8/8/8/8/8/8/4K2R w K - 0 1", from: "e1", to: "g1", want: "4k3/8/8/8/8/8/8/5RK1"},
		{name: "promotion", fen: "7k/P7/8/8/8/8/8/K7 w - - 0 1", from: "a7", to: "a8", want: "Q6k/8/8/8/8/8/8/K7"},
		{name: "en passant", fen: "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", from: "e5", to: "d6", want: "4k3/8/3P4/8/8/8/8/4K3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromFEN(t, tt.fen)

			bare := Move{Start: sq(t, tt.from), End: sq(t, tt.to)}
			assert.False(t, b.IsMoveAvailable(bare))

			m := b.NewMove(bare.Start, bare.End)
			require.True(t, b.IsMoveAvailable(m))
			b.MoveTo(&m)
			assert.Equal(t, tt.want, b.PlacementFEN())
		})
	}
}
