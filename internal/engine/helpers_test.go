package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, s string) Coordinate {
	t.Helper()
	c, err := ParseSquare(s)
	require.NoError(t, err)
	return c
}

func boardFromFEN(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := NewBoardFromFEN(fen)
	require.NoError(t, err)
	return b
}

// play applies moves written as "e2e4" and fails on the first illegal one.
func play(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, m := range moves {
		_, err := b.TryMove(sq(t, m[:2]), sq(t, m[2:]))
		require.NoError(t, err, "move %s", m)
	}
}

func destinationsFrom(moves []Move, from Coordinate) []Coordinate {
	var dests []Coordinate
	for _, m := range moves {
		if m.Start == from {
			dests = append(dests, m.End)
		}
	}
	return dests
}
