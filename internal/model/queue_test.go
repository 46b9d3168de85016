package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer(Player{ID: "a"}))
	assert.ErrorIs(t, q.AddPlayer(Player{ID: "a"}), ErrAlreadyQueued)

	_, _, ok := q.GetNextPair()
	assert.False(t, ok)

	require.NoError(t, q.AddPlayer(Player{ID: "b"}))
	require.NoError(t, q.AddPlayer(Player{ID: "c"}))
	q.RemovePlayer("b")
	require.NoError(t, q.AddPlayer(Player{ID: "d"}))

	p1, p2, ok := q.GetNextPair()
	require.True(t, ok)
	assert.Equal(t, "a", p1.ID)
	assert.Equal(t, "c", p2.ID)
	assert.Equal(t, 1, q.Size())
}
