package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	log.Debugf("websocket opened for game %s by player %s", gameID, playerID)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("failed to register connection: %v", err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error: %v", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error: %v", err)
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("game %s: message %s from %s rejected: %v", gameID, msg.Type, playerID, err)
			wsc.sendError(gameID, playerID, err)
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	case ws.MessageTypeSelect:
		var sel ws.SelectPayload
		if err := json.Unmarshal(msg.Payload, &sel); err != nil {
			return err
		}
		dests, err := wsc.gameService.LegalMoves(gameID, sel.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, ws.LegalMovesPayload{
			Square:       sel.Square,
			Destinations: dests,
		})
		if err != nil {
			return err
		}
		return wsc.gameService.Send(gameID, playerID, reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID, playerID string, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		log.Errorf("marshal error message: %v", merr)
		return
	}
	if err := wsc.gameService.Send(gameID, playerID, msg); err != nil {
		log.Debugf("game %s: could not deliver error to %s: %v", gameID, playerID, err)
	}
}

// HandleMatchmaking queues the player and waits for a match, then sends the
// match event and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)
	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		log.Warnf("matchmaking for %s: %v", playerID, err)
		c.Close()
		return
	}

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		log.Warnf("matchmaking for %s: %v", playerID, err)
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		// a closed channel was replaced by a newer registration
		if !ok {
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Warnf("matchmaking for %s: %v", playerID, err)
		}
	case <-closed:
		log.Debugf("player %s left matchmaking", playerID)
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
	}
}
