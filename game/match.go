package game

import (
	"errors"
	"time"
)

// Status 对局状态：IN_PROGRESS → FINISHED（终态，不可回退）
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

var (
	ErrNotYourTurn    = errors.New("not your turn or invalid player")
	ErrMatchFinished  = errors.New("match is not in progress")
	ErrNotParticipant = errors.New("player is not in this match")
)

// Match 一局对战的权威状态。本身不加锁，由调用方串行访问
type Match struct {
	ID        string
	Players   [2]Player
	Board     Board
	Turn      Symbol
	Status    Status
	StartTime time.Time
}

// MoveOutcome 一次落子或认输的结果
type MoveOutcome struct {
	Terminal bool
	Board    Board
	Turn     Symbol
	Draw     bool
	Forfeit  bool
	Winner   *Player // 平局或未结束时为 nil
	Loser    *Player
	Line     []int // 胜利线格子下标；认输/平局为 nil
}

// NewMatch 建立对局：一次掷币决定 a 是否执 X；X 永远先手
func NewMatch(id string, a, b Player, flip CoinFlip) *Match {
	if flip == nil {
		flip = FairCoin
	}
	if flip() {
		a.Symbol, b.Symbol = X, O
	} else {
		a.Symbol, b.Symbol = O, X
	}
	return &Match{
		ID:        id,
		Players:   [2]Player{a, b},
		Turn:      X,
		Status:    StatusInProgress,
		StartTime: time.Now(),
	}
}

// Seat 查找玩家在本局中的席位
func (m *Match) Seat(id PlayerID) (Player, bool) {
	for _, p := range m.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Opponent 返回 id 的对手
func (m *Match) Opponent(id PlayerID) (Player, bool) {
	switch id {
	case m.Players[0].ID:
		return m.Players[1], true
	case m.Players[1].ID:
		return m.Players[0], true
	}
	return Player{}, false
}

func (m *Match) bySymbol(s Symbol) Player {
	if m.Players[0].Symbol == s {
		return m.Players[0]
	}
	return m.Players[1]
}

// SubmitMove 校验并执行一次落子；失败时棋盘/回合/状态均不变
func (m *Match) SubmitMove(id PlayerID, row, col int) (MoveOutcome, error) {
	if m.Status != StatusInProgress {
		return MoveOutcome{}, ErrMatchFinished
	}
	p, ok := m.Seat(id)
	if !ok || p.Symbol != m.Turn {
		return MoveOutcome{}, ErrNotYourTurn
	}
	next, err := m.Board.Apply(row, col, p.Symbol)
	if err != nil {
		return MoveOutcome{}, err
	}
	m.Board = next

	win, hasWinner := DetectWinner(m.Board)
	draw := IsDraw(m.Board, hasWinner)
	if !hasWinner && !draw {
		m.Turn = m.Turn.Other()
		return MoveOutcome{Board: m.Board, Turn: m.Turn}, nil
	}

	m.Status = StatusFinished
	out := MoveOutcome{Terminal: true, Board: m.Board, Turn: m.Turn, Draw: draw}
	if hasWinner {
		winner := m.bySymbol(win.Symbol)
		loser := m.bySymbol(win.Symbol.Other())
		out.Winner, out.Loser = &winner, &loser
		out.Line = win.Cells[:]
	}
	return out, nil
}

// Forfeit 认输或掉线：无论棋盘与回合，对手直接获胜
func (m *Match) Forfeit(id PlayerID) (MoveOutcome, error) {
	if m.Status != StatusInProgress {
		return MoveOutcome{}, ErrMatchFinished
	}
	loser, ok := m.Seat(id)
	if !ok {
		return MoveOutcome{}, ErrNotParticipant
	}
	winner, _ := m.Opponent(id)
	m.Status = StatusFinished
	return MoveOutcome{
		Terminal: true,
		Board:    m.Board,
		Turn:     m.Turn,
		Forfeit:  true,
		Winner:   &winner,
		Loser:    &loser,
	}, nil
}

// MatchState 下发给客户端的完整对局快照
type MatchState struct {
	ID        string    `json:"id"`
	Players   [2]Player `json:"players"`
	Board     Board     `json:"board"`
	Turn      Symbol    `json:"turn"`
	Status    Status    `json:"status"`
	StartTime int64     `json:"startTime"` // unix 毫秒
}

// State 拷贝当前状态（数组为值类型，快照与对局互不影响）
func (m *Match) State() MatchState {
	return MatchState{
		ID:        m.ID,
		Players:   m.Players,
		Board:     m.Board,
		Turn:      m.Turn,
		Status:    m.Status,
		StartTime: m.StartTime.UnixMilli(),
	}
}
