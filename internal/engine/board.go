package engine

// Board is the authoritative 8x8 position. It is not safe for concurrent use:
// legality queries temporarily relocate pieces, so callers must serialize
// every call, reads included.
type Board struct {
	spots    [Size][Size]Spot
	pieces   []pieceRecord // pieces[id-1]
	lastMove *Move

	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func()
}

// NewBoard returns a board with the standard starting position.
func NewBoard() *Board {
	return NewBoardFromLayout(StandardLayout())
}

// NewBoardFromLayout places the pieces of layout. Nil cells become empty
// spots.
func NewBoardFromLayout(layout Layout) *Board {
	b := &Board{}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if pl := layout[y][x]; pl != nil {
				id := b.newPiece(pl.Kind, pl.Color, pl.Moved)
				b.place(id, Coordinate{X: x, Y: y})
			}
		}
	}
	return b
}

func (b *Board) newPiece(kind Kind, color Color, moved bool) PieceID {
	id := PieceID(len(b.pieces) + 1)
	b.pieces = append(b.pieces, pieceRecord{Piece: Piece{ID: id, Kind: kind, Color: color, Moved: moved}})
	return id
}

func (b *Board) record(id PieceID) *pieceRecord {
	if id <= NoPiece || int(id) > len(b.pieces) {
		return nil
	}
	return &b.pieces[id-1]
}

// place puts id on c, dropping whatever stood there from the board.
func (b *Board) place(id PieceID, c Coordinate) {
	b.clear(c)
	b.spots[c.Y][c.X].piece = id
	if r := b.record(id); r != nil {
		r.at = c
		r.onBoard = true
	}
}

func (b *Board) clear(c Coordinate) {
	if r := b.record(b.spots[c.Y][c.X].piece); r != nil && r.at == c {
		r.onBoard = false
	}
	b.spots[c.Y][c.X].piece = NoPiece
}

// relocate moves whatever stands on start to end without side effects.
func (b *Board) relocate(start, end Coordinate) {
	id := b.spots[start.Y][start.X].piece
	b.clear(start)
	b.place(id, end)
}

// Subscribe registers fn to be called synchronously, in registration order,
// after every successful mutation. The returned func removes it.
func (b *Board) Subscribe(fn func()) (unsubscribe func()) {
	b.nextSubID++
	id := b.nextSubID
	b.subscribers = append(b.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (b *Board) notify() {
	for _, s := range b.subscribers {
		s.fn()
	}
}

// PieceAt returns the piece on c. Out-of-range squares hold no piece.
func (b *Board) PieceAt(c Coordinate) (Piece, bool) {
	if !c.InBounds() {
		return Piece{}, false
	}
	r := b.record(b.spots[c.Y][c.X].piece)
	if r == nil {
		return Piece{}, false
	}
	return r.Piece, true
}

// Piece returns the piece with handle id if it is still on the board.
func (b *Board) Piece(id PieceID) (Piece, bool) {
	r := b.record(id)
	if r == nil || !r.onBoard {
		return Piece{}, false
	}
	return r.Piece, true
}

func (b *Board) HasPiece(c Coordinate) bool {
	_, ok := b.PieceAt(c)
	return ok
}

// Spot returns the cell at c; ok is false outside the board.
func (b *Board) Spot(c Coordinate) (Spot, bool) {
	if !c.InBounds() {
		return Spot{}, false
	}
	return b.spots[c.Y][c.X], true
}

// FindPiece returns the square of the piece with handle id.
func (b *Board) FindPiece(id PieceID) (Coordinate, bool) {
	r := b.record(id)
	if r == nil || !r.onBoard {
		return Coordinate{}, false
	}
	return r.at, true
}

// FindKing returns the square of color's king. A missing king means a
// malformed position; check and mate evaluation is meaningless then.
func (b *Board) FindKing(color Color) (Coordinate, bool) {
	p, ok := b.FirstPieceOf(color, King)
	if !ok {
		return Coordinate{}, false
	}
	return b.FindPiece(p.ID)
}

// FirstPieceOf scans the board row by row for a piece of the given color and
// kind.
func (b *Board) FirstPieceOf(color Color, kind Kind) (Piece, bool) {
	for _, p := range b.AllPiecesByColor(color) {
		if p.Kind == kind {
			return p, true
		}
	}
	return Piece{}, false
}

// AllPiecesByColor lists color's pieces in row-major board order.
func (b *Board) AllPiecesByColor(color Color) []Piece {
	var pieces []Piece
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if p, ok := b.PieceAt(Coordinate{X: x, Y: y}); ok && p.Color == color {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) NumberOfPieces() int {
	count := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.spots[y][x].IsOccupied() {
				count++
			}
		}
	}
	return count
}

// IsOnRow reports whether the piece with handle id stands on row.
func (b *Board) IsOnRow(id PieceID, row int) bool {
	at, ok := b.FindPiece(id)
	return ok && at.Y == row
}

// LastMove is the last ordinary move applied. Castling, en passant and
// promotion do not update it.
func (b *Board) LastMove() (Move, bool) {
	if b.lastMove == nil {
		return Move{}, false
	}
	return *b.lastMove, true
}

// AddPiece creates a piece on c, replacing any occupant, and returns its
// handle.
func (b *Board) AddPiece(kind Kind, color Color, c Coordinate) (PieceID, error) {
	if !c.InBounds() {
		return NoPiece, ErrOutOfBounds
	}
	id := b.newPiece(kind, color, false)
	b.place(id, c)
	b.notify()
	return id, nil
}

// RemovePiece takes the piece with handle id off the board.
func (b *Board) RemovePiece(id PieceID) {
	at, ok := b.FindPiece(id)
	if !ok {
		return
	}
	b.clear(at)
	b.notify()
}

func (b *Board) RemovePieceAt(c Coordinate) {
	if !b.HasPiece(c) {
		return
	}
	b.clear(c)
	b.notify()
}

// MoveTo applies m. A nil move, or one whose start square is empty, is a
// no-op. MoveTo does not check legality: callers must vet m with
// IsMoveAvailable first, or use TryMove.
func (b *Board) MoveTo(m *Move) {
	if m == nil || !m.Start.InBounds() || !m.End.InBounds() {
		return
	}
	id := b.spots[m.Start.Y][m.Start.X].piece
	r := b.record(id)
	if r == nil {
		return
	}
	switch {
	case m.Castling:
		b.castle(*m)
	case m.EnPassant:
		b.enPassant(r.Piece, *m)
	case m.Promotion:
		b.promote(r.Piece, *m)
	default:
		b.relocate(m.Start, m.End)
		r.Moved = true
		last := *m
		b.lastMove = &last
	}
	b.notify()
}

// MovePiece builds a move for the piece with handle id and applies it.
func (b *Board) MovePiece(id PieceID, to Coordinate) {
	from, ok := b.FindPiece(id)
	if !ok {
		return
	}
	m := b.NewMove(from, to)
	b.MoveTo(&m)
}

// TryMove classifies start→end, rejects it unless it is legal for the piece
// on start, and applies it.
func (b *Board) TryMove(start, end Coordinate) (Move, error) {
	if !start.InBounds() || !end.InBounds() {
		return Move{}, ErrOutOfBounds
	}
	if !b.HasPiece(start) {
		return Move{}, ErrNoPiece
	}
	m := b.NewMove(start, end)
	if !b.IsMoveAvailable(m) {
		return Move{}, ErrIllegalMove
	}
	b.MoveTo(&m)
	return m, nil
}

func (b *Board) castle(m Move) {
	rookMove := m.castlingRookMove()
	king := b.spots[m.Start.Y][m.Start.X].piece
	rook := b.spots[rookMove.Start.Y][rookMove.Start.X].piece
	b.clear(m.Start)
	b.clear(rookMove.Start)
	b.place(king, m.End)
	b.place(rook, rookMove.End)
	for _, id := range [...]PieceID{king, rook} {
		if r := b.record(id); r != nil {
			r.Moved = true
		}
	}
}

func (b *Board) enPassant(p Piece, m Move) {
	b.relocate(m.Start, m.End)
	b.clear(m.End.Add(0, -p.Color.forward()))
}

func (b *Board) promote(p Piece, m Move) {
	b.clear(m.Start)
	b.place(b.newPiece(Queen, p.Color, false), m.End)
}

// Clone returns a deep copy of the position without subscribers.
func (b *Board) Clone() *Board {
	c := &Board{spots: b.spots}
	c.pieces = append([]pieceRecord(nil), b.pieces...)
	if b.lastMove != nil {
		last := *b.lastMove
		c.lastMove = &last
	}
	return c
}
