package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const (
	ResolveCheckmate   = "checkmate"
	ResolveStalemate   = "stalemate"
	ResolveTimeout     = "timeout"
	ResolveResignation = "resignation"
)

// connection serializes writes to one websocket.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*connection // playerID -> connection
	mu          sync.RWMutex
}

// Game is one session around an engine.Board. It owns turn order, players,
// clocks and history; the board only answers what is legal.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *engine.Board
	state       GameState
	pending     *Ply // ply being applied, consumed by onBoardChanged
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock

	version     uint64 // bumped under mu for every published snapshot
	sendMu      sync.Mutex
	sentVersion uint64
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          BoardState     `json:"boardState"`
	ToMove         engine.Color   `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	Winner         *engine.Color  `json:"winner"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}

// NewGame starts a session on board with toMove to play first.
func NewGame(id string, board *engine.Board, toMove engine.Color, clock time.Duration) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		state:       newGameState(board, toMove),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clock),
		blackClock:  NewClock(clock),
	}
	g.state.Players.White.TimeLeft = deciseconds(clock)
	g.state.Players.Black.TimeLeft = deciseconds(clock)
	board.Subscribe(g.onBoardChanged)
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*connection),
	}
}

func newGameState(board *engine.Board, toMove engine.Color) GameState {
	return GameState{
		Board:       newBoardState(board),
		ToMove:      toMove,
		MoveHistory: make([]Move, 0),
		CapturedPieces: CapturedPieces{
			White: make([]engine.Piece, 0),
			Black: make([]engine.Piece, 0),
		},
	}
}

// AddPlayer seats playerID in the first free color. A player already seated
// gets their color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: adding player %s", g.ID, playerID)

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	var color engine.Color
	switch {
	case g.state.Players.White.ID == "":
		color = engine.White
	case g.state.Players.Black.ID == "":
		color = engine.Black
	default:
		return engine.White, ErrGameFull
	}
	seat := g.seat(color)
	seat.ID = playerID
	seat.Color = color.String()

	if g.state.Players.White.ID != "" && g.state.Players.Black.ID != "" {
		g.clockFor(g.state.ToMove).Start()
	}
	return color, nil
}

func (g *Game) seat(color engine.Color) *ClientPlayer {
	if color == engine.White {
		return &g.state.Players.White
	}
	return &g.state.Players.Black
}

func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	if playerID == "" {
		return engine.White, false
	}
	if g.state.Players.White.ID == playerID {
		return engine.White, true
	}
	if g.state.Players.Black.ID == playerID {
		return engine.Black, true
	}
	return engine.White, false
}

func (g *Game) clockFor(color engine.Color) *Clock {
	if color == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// LegalDestinations lists where the piece on from may move.
func (g *Game) LegalDestinations(from engine.Coordinate) []engine.Coordinate {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.LegalDestinations(from)
}

// MakeMove plays from→to for playerID after checking turn, ownership and
// the clock.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: player %s plays %s-%s", g.ID, playerID, move.From, move.To)

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.state.ToMove {
		return ErrNotYourTurn
	}
	piece, ok := g.board.PieceAt(move.From)
	if !ok {
		return fmt.Errorf("%s: %w", move.From, engine.ErrNoPiece)
	}
	if piece.Color != color {
		return ErrNotYourPiece
	}
	if g.expire() {
		return ErrOutOfTime
	}

	m := g.board.NewMove(move.From, move.To)
	if !g.board.IsMoveAvailable(m) {
		return fmt.Errorf("%s-%s: %w", move.From, move.To, engine.ErrIllegalMove)
	}
	g.clockFor(color).Stop()
	ply := makePly(g.board, m)
	g.pending = &ply
	if _, err := g.board.TryMove(move.From, move.To); err != nil {
		g.pending = nil
		g.clockFor(color).Start()
		return fmt.Errorf("apply %s-%s: %w", move.From, move.To, err)
	}
	return nil
}

// onBoardChanged runs synchronously inside board mutations, so g.mu is
// already held by MakeMove.
func (g *Game) onBoardChanged() {
	if ply := g.pending; ply != nil {
		g.pending = nil
		g.recordPly(*ply)
		g.switchTurn()
		g.evaluatePosition()
		if g.state.Resolve == nil {
			g.clockFor(g.state.ToMove).Start()
		}
	}
	g.state.Board = newBoardState(g.board)
	g.publish()
}

func (g *Game) recordPly(ply Ply) {
	mover := ply.Piece.Color
	g.state.Sound = "move"
	if ply.CapturedPiece != nil {
		g.state.Sound = "capture"
		switch mover {
		case engine.White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *ply.CapturedPiece)
		case engine.Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *ply.CapturedPiece)
		}
	}

	// Add the ply to the move history
	n := len(g.state.MoveHistory)
	if mover == engine.White || n == 0 || g.state.MoveHistory[n-1].BlackPly != nil {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{})
		n++
	}
	if mover == engine.White {
		g.state.MoveHistory[n-1].WhitePly = &ply
	} else {
		g.state.MoveHistory[n-1].BlackPly = &ply
	}
	g.state.LastMove = &SimpleMove{From: ply.From, To: ply.To}
}

func (g *Game) lastPly() *Ply {
	n := len(g.state.MoveHistory)
	if n == 0 {
		return nil
	}
	if p := g.state.MoveHistory[n-1].BlackPly; p != nil {
		return p
	}
	return g.state.MoveHistory[n-1].WhitePly
}

// evaluatePosition checks the side now to move for check, mate and
// stalemate.
func (g *Game) evaluatePosition() {
	status, err := g.board.Status(g.state.ToMove)
	if err != nil {
		log.Errorf("game %s: cannot evaluate %s: %v", g.ID, g.state.ToMove, err)
		return
	}
	g.state.IsCheck = status == engine.Check || status == engine.Checkmate
	if g.state.IsCheck {
		g.state.Sound = "check"
	}
	ply := g.lastPly()
	switch status {
	case engine.Check:
		if ply != nil {
			ply.Notation += "+"
		}
	case engine.Checkmate:
		if ply != nil {
			ply.Notation += "#"
		}
		g.resolve(ResolveCheckmate, g.state.ToMove.Opposite())
	case engine.Stalemate:
		g.resolve(ResolveStalemate, g.state.ToMove)
	}
}

// resolve ends the game. winner is ignored for a stalemate.
func (g *Game) resolve(result string, winner engine.Color) {
	g.state.Resolve = &result
	if result != ResolveStalemate {
		g.state.Winner = &winner
	}
	g.whiteClock.Stop()
	g.blackClock.Stop()
	log.Infof("game %s: %s", g.ID, result)
}

// expire resolves the game on time when the side to move has run out.
func (g *Game) expire() bool {
	if !g.clockFor(g.state.ToMove).Expired() {
		return false
	}
	g.resolve(ResolveTimeout, g.state.ToMove.Opposite())
	g.publish()
	return true
}

// CheckTimeout ends the game if the side to move is out of time.
func (g *Game) CheckTimeout() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return false
	}
	return g.expire()
}

// Resign ends the game in favour of playerID's opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if g.state.Resolve != nil {
		return ErrGameOver
	}
	g.resolve(ResolveResignation, color.Opposite())
	g.publish()
	return nil
}

func (g *Game) switchTurn() {
	g.state.ToMove = g.state.ToMove.Opposite()
}

// snapshot copies the state for use outside g.mu.
func (g *Game) snapshot() GameState {
	s := g.state
	s.MoveHistory = append([]Move(nil), g.state.MoveHistory...)
	s.CapturedPieces.White = append([]engine.Piece(nil), g.state.CapturedPieces.White...)
	s.CapturedPieces.Black = append([]engine.Piece(nil), g.state.CapturedPieces.Black...)
	s.Players.White.TimeLeft = deciseconds(g.whiteClock.GetTimeLeft())
	s.Players.Black.TimeLeft = deciseconds(g.blackClock.GetTimeLeft())
	return s
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugf("game %s: registering connection %s for player %s", g.ID, connID, playerID)

	g.mu.Lock()
	_, inGame := g.colorOf(playerID)
	isAuthorized := inGame || g.canSpectate()
	state, version := g.snapshot(), g.version
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = &connection{conn: conn}
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection %s for player %s", g.ID, connID, playerID)

	go g.broadcastState(state, version)
	return nil
}

// UnregisterConnection drops playerID's connection if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if c, exists := g.connections.connections[playerID]; exists {
		if c.conn != conn {
			log.Debugf("game %s: ignoring unregister for old connection of player %s", g.ID, playerID)
			return
		}
		log.Debugf("game %s: unregistering connection of player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// Send writes msg to playerID's connection, if any.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	c, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return ErrNotInGame
	}
	return c.writeJSON(msg)
}

// publish numbers the current state and broadcasts it. Callers hold g.mu.
func (g *Game) publish() {
	g.version++
	go g.broadcastState(g.snapshot(), g.version)
}

// broadcastState sends state to every connection unless a newer version has
// already gone out. Sends are serialized, so clients see versions in order.
func (g *Game) broadcastState(state GameState, version uint64) bool {
	g.sendMu.Lock()
	defer g.sendMu.Unlock()
	if version < g.sentVersion {
		log.Debugf("game %s: dropping stale state %d", g.ID, version)
		return false
	}
	g.sentVersion = version

	jsonGameState, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return false
	}
	msg := ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(jsonGameState),
	}

	// Make a copy of the connections we need to broadcast to
	g.connections.mu.RLock()
	activeConnections := make(map[string]*connection, len(g.connections.connections))
	for playerID, c := range g.connections.connections {
		activeConnections[playerID] = c
	}
	g.connections.mu.RUnlock()

	for playerID, c := range activeConnections {
		if err := c.writeJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == c {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
			continue
		}
		log.Debugf("game %s: sent state to player %s", g.ID, playerID)
	}
	return true
}
