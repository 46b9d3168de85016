package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

type Player struct {
	ID    string
	Color engine.Color
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}
