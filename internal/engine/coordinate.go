package engine

import (
	"errors"
	"fmt"
)

// Size is the number of rows and columns on the board.
const Size = 8

var ErrBadSquare = errors.New("malformed square")

// Coordinate is a board position. X is the file (0 = a), Y the row counted
// from black's back rank (0 = rank 8).
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// String renders the square in algebraic form, e.g. "e4".
func (c Coordinate) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+c.X, Size-c.Y)
}

func (c Coordinate) File() string {
	return fmt.Sprintf("%c", 'a'+c.X)
}

// ParseSquare reads an algebraic square such as "e4".
func ParseSquare(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	c := Coordinate{X: int(s[0] - 'a'), Y: Size - int(s[1]-'0')}
	if s[0] < 'a' || s[1] < '1' || !c.InBounds() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	return c, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
