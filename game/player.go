package game

import "math/rand"

// PlayerID 服务端为每条传输连接分配的唯一标识（连接断开即失效）
type PlayerID string

// Player 对局中的一方
type Player struct {
	ID       PlayerID `json:"id"`
	Nickname string   `json:"nickname"`
	Symbol   Symbol   `json:"symbol"`
}

// CoinFlip 返回 true 表示第一位玩家执 X
type CoinFlip func() bool

// FairCoin 无偏硬币
func FairCoin() bool { return rand.Intn(2) == 0 }
