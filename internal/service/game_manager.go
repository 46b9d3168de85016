package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type Options struct {
	ClockDuration       time.Duration
	MatchmakingInterval time.Duration
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	opts             Options
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

func NewGameManager(opts Options) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		opts:             opts,
		done:             make(chan struct{}),
	}

	// Start matchmaking processor
	go gm.run()

	return gm
}

// Close stops the background ticker.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) run() {
	ticker := time.NewTicker(gm.opts.MatchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.processMatchmaking()
			gm.sweepClocks()
		}
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		log.Debugf("replacing existing matchmaking channel for player %s", playerID)
		// Remove from map first to prevent any new writes
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, engine.NewBoard(), engine.White, gm.opts.ClockDuration)

		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infof("matched %s and %s in game %s", player1.ID, player2.ID, gameID)

		sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
			ch, ok := gm.matchingChannels[playerID]
			if !ok {
				return false
			}
			select {
			case ch <- mustJSON(event):
				log.Debugf("sent match found event to player %s", playerID)
				delete(gm.matchingChannels, playerID)
				close(ch)
				return true
			default:
				log.Warnf("failed to send match found event to player %s", playerID)
				return false
			}
		}

		sent1 := sendEventAndCleanup(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color.String()})
		sent2 := sendEventAndCleanup(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color.String()})
		if !sent1 || !sent2 {
			log.Warnf("game %s: not every matched player was notified", gameID)
		}
	}
}

// sweepClocks resolves games whose side to move ran out of time.
func (gm *GameManager) sweepClocks() {
	gm.mu.RLock()
	games := make([]*model.Game, 0, len(gm.games))
	for _, g := range gm.games {
		games = append(games, g)
	}
	gm.mu.RUnlock()

	for _, g := range games {
		if g.CheckTimeout() {
			log.Infof("game %s: flag fell", g.ID)
		}
	}
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("unregistering matchmaking channel for player %s", playerID)

	// The creator of the channel is responsible for closing it
	delete(gm.matchingChannels, playerID)
	gm.queue.RemovePlayer(playerID)
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// CreateGame registers a game under gameID. An empty fen means the standard
// starting position.
func (gm *GameManager) CreateGame(gameID string, fen string) error {
	board := engine.NewBoard()
	toMove := engine.White
	if fen != "" {
		var err error
		if board, err = engine.NewBoardFromFEN(fen); err != nil {
			return err
		}
		if toMove, err = engine.TurnFromFEN(fen); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, board, toMove, gm.opts.ClockDuration)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gm *GameManager) LegalDestinations(gameID string, from engine.Coordinate) ([]engine.Coordinate, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(from), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}
