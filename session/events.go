package session

import (
	"xoarena/game"
	"xoarena/standings"
)

// 出站事件名
const (
	EventMatchmakingStatus    = "matchmaking_status"
	EventGameStart            = "game_start"
	EventGameUpdate           = "game_update"
	EventGameOver             = "game_over"
	EventOpponentDisconnected = "opponent_disconnected"
	EventMoveRejected         = "move_rejected"
)

const (
	StatusWaiting  = "WAITING"
	StatusCanceled = "CANCELED"
)

// Notifier 把事件投递给某条连接；实现方不得阻塞
type Notifier interface {
	Notify(to game.PlayerID, event string, data any)
}

// Presence 判断连接是否仍在线，用于配对前剔除失效的排队者
type Presence interface {
	IsLive(id game.PlayerID) bool
}

type MatchmakingStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// GameStart 完整对局状态 + 接收者自己的符号
type GameStart struct {
	game.MatchState
	MySymbol game.Symbol `json:"mySymbol"`
}

type GameOver struct {
	Board       game.Board        `json:"board"`
	Winner      *string           `json:"winner"`
	WinningLine []int             `json:"winningLine,omitempty"`
	Points      int               `json:"points"`
	IsDraw      bool              `json:"isDraw"`
	Forfeit     bool              `json:"forfeit,omitempty"`
	Leaderboard []standings.Entry `json:"leaderboard"`
	MyNickname  string            `json:"myNickname"`
}

type OpponentDisconnected struct {
	Message     string            `json:"message"`
	Points      int               `json:"points"`
	Leaderboard []standings.Entry `json:"leaderboard"`
}

type MoveRejected struct {
	Reason string `json:"reason"`
}

// Notification 一条待投递的事件
type Notification struct {
	To    game.PlayerID
	Event string
	Data  any
}
