package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

// BoardState is the client view of the board, indexed [y][x] with row 0 on
// black's back rank.
type BoardState struct {
	Board             [][]*engine.Piece  `json:"board"`
	FEN               string             `json:"fen"`
	WhiteKingPosition *engine.Coordinate `json:"whiteKingPosition"`
	BlackKingPosition *engine.Coordinate `json:"blackKingPosition"`
}

func newBoardState(b *engine.Board) BoardState {
	state := BoardState{FEN: b.PlacementFEN()}
	for y := 0; y < engine.Size; y++ {
		row := make([]*engine.Piece, engine.Size)
		for x := 0; x < engine.Size; x++ {
			if p, ok := b.PieceAt(engine.NewCoordinate(x, y)); ok {
				row[x] = &p
			}
		}
		state.Board = append(state.Board, row)
	}
	if pos, ok := b.FindKing(engine.White); ok {
		state.WhiteKingPosition = &pos
	}
	if pos, ok := b.FindKing(engine.Black); ok {
		state.BlackKingPosition = &pos
	}
	return state
}
