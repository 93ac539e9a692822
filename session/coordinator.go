// Package session 是服务端唯一的权威状态：等待队列、对局表、玩家→对局索引。
// 所有入站命令经 Coordinator.Dispatch 串行处理，处理结果在释放锁后再投递给连接。
package session

import (
	"errors"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"xoarena/game"
	"xoarena/matchmaking"
	"xoarena/standings"
)

const (
	msgCanceled      = "Matchmaking canceled by user."
	msgResetScreen   = "Resetting screen state."
	msgOpponentLeft  = "Opponent disconnected. You win by forfeit."
	msgOpponentQuit  = "Opponent forfeited. You win by forfeit."
	reasonNotYours   = "Not your turn or invalid player."
	reasonInvalid    = "Invalid cell."
	reasonOccupied   = "Cell already occupied."
	reasonNotRunning = "Game is not in progress."
)

// Coordinator 持有 {队列, 对局表, 玩家索引}，由同一把互斥锁保护
type Coordinator struct {
	mu       sync.Mutex
	queue    *matchmaking.Queue
	matches  map[string]*game.Match
	byPlayer map[game.PlayerID]string

	ledger   *standings.Ledger
	notifier Notifier
	presence Presence
	flip     game.CoinFlip
	newID    func() string
	metrics  *Metrics
	log      *zap.SugaredLogger
}

// Option 可选配置（主要用于测试注入确定性）
type Option func(*Coordinator)

func WithPresence(p Presence) Option { return func(c *Coordinator) { c.presence = p } }

func WithCoinFlip(f game.CoinFlip) Option { return func(c *Coordinator) { c.flip = f } }

func WithMatchIDs(gen func() string) Option { return func(c *Coordinator) { c.newID = gen } }

// New 创建协调器；notifier 不能为空
func New(ledger *standings.Ledger, notifier Notifier, log *zap.SugaredLogger, opts ...Option) *Coordinator {
	c := &Coordinator{
		queue:    matchmaking.NewQueue(),
		matches:  make(map[string]*game.Match),
		byPlayer: make(map[game.PlayerID]string),
		ledger:   ledger,
		notifier: notifier,
		flip:     game.FairCoin,
		newID:    func() string { return gonanoid.Must() },
		metrics:  &Metrics{},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// outbox 在锁内收集通知，锁外统一投递
type outbox []Notification

func (o *outbox) add(to game.PlayerID, event string, data any) {
	*o = append(*o, Notification{To: to, Event: event, Data: data})
}

// Dispatch 处理一条命令：解析上下文 → 拒绝不一致命令 → 执行 → 更新索引 → 通知
func (c *Coordinator) Dispatch(cmd Command) {
	var out outbox
	c.mu.Lock()
	switch cmd.Kind {
	case CmdJoin:
		c.join(cmd, &out)
	case CmdMove:
		c.move(cmd, &out)
	case CmdCancel:
		c.cancel(cmd, &out)
	case CmdForfeit:
		c.forfeit(cmd.Conn, false, &out)
	case CmdDisconnect:
		if c.queue.Cancel(cmd.Conn) {
			c.log.Debugw("waiting player disconnected", "conn", cmd.Conn)
		}
		c.forfeit(cmd.Conn, true, &out)
	default:
		c.log.Warnw("unknown command", "kind", int(cmd.Kind), "conn", cmd.Conn)
	}
	c.mu.Unlock()

	for _, n := range out {
		c.notifier.Notify(n.To, n.Event, n.Data)
	}
}

func (c *Coordinator) ignore(cmd Command, why string) {
	c.metrics.IncIgnored()
	c.log.Debugw("command ignored", "cmd", cmd.Kind.String(), "conn", cmd.Conn, "why", why)
}

func (c *Coordinator) join(cmd Command, out *outbox) {
	name := strings.TrimSpace(cmd.Nickname)
	if name == "" {
		c.ignore(cmd, "empty nickname")
		return
	}
	if _, busy := c.byPlayer[cmd.Conn]; busy {
		c.ignore(cmd, "already in a match")
		return
	}
	if !c.queue.Enqueue(cmd.Conn, name) {
		c.ignore(cmd, "already waiting")
		return
	}
	c.metrics.IncJoins()
	c.log.Infow("player waiting", "conn", cmd.Conn, "nickname", name, "queue", c.queue.Len())
	out.add(cmd.Conn, EventMatchmakingStatus, MatchmakingStatus{Status: StatusWaiting})

	c.pair(out)
}

func (c *Coordinator) isLive(id game.PlayerID) bool {
	if c.presence == nil {
		return true
	}
	return c.presence.IsLive(id)
}

func (c *Coordinator) pair(out *outbox) {
	before := c.queue.Len()
	pairs := c.queue.TryPair(c.isLive)
	if dropped := before - c.queue.Len() - 2*len(pairs); dropped > 0 {
		c.metrics.AddStaleDropped(int64(dropped))
		c.log.Debugw("dropped stale queue entries", "count", dropped)
	}
	for _, p := range pairs {
		c.start(p, out)
	}
}

func (c *Coordinator) start(p matchmaking.Pair, out *outbox) {
	m := game.NewMatch(c.newID(),
		game.Player{ID: p.First.ID, Nickname: p.First.Nickname},
		game.Player{ID: p.Second.ID, Nickname: p.Second.Nickname},
		c.flip)
	c.matches[m.ID] = m
	for _, pl := range m.Players {
		c.byPlayer[pl.ID] = m.ID
	}
	c.metrics.IncMatchesStarted()
	c.log.Infow("match started", "match", m.ID,
		"first", m.Players[0].Nickname, "second", m.Players[1].Nickname,
		"first_symbol", m.Players[0].Symbol.String())

	st := m.State()
	for _, pl := range m.Players {
		out.add(pl.ID, EventGameStart, GameStart{MatchState: st, MySymbol: pl.Symbol})
	}
}

// activeMatch 解析连接当前所在的对局
func (c *Coordinator) activeMatch(id game.PlayerID) (*game.Match, bool) {
	matchID, ok := c.byPlayer[id]
	if !ok {
		return nil, false
	}
	m, ok := c.matches[matchID]
	return m, ok
}

func (c *Coordinator) move(cmd Command, out *outbox) {
	m, ok := c.activeMatch(cmd.Conn)
	if !ok || m.Status != game.StatusInProgress {
		c.ignore(cmd, "no active match")
		return
	}
	res, err := m.SubmitMove(cmd.Conn, cmd.Row, cmd.Col)
	if err != nil {
		c.metrics.IncMovesRejected()
		c.log.Debugw("move rejected", "match", m.ID, "conn", cmd.Conn, "row", cmd.Row, "col", cmd.Col, "err", err)
		out.add(cmd.Conn, EventMoveRejected, MoveRejected{Reason: rejectReason(err)})
		return
	}
	c.metrics.IncMovesAccepted()

	if !res.Terminal {
		st := m.State()
		for _, pl := range m.Players {
			out.add(pl.ID, EventGameUpdate, st)
		}
		return
	}
	c.finish(m, res, out)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return reasonNotYours
	case errors.Is(err, game.ErrCellOccupied):
		return reasonOccupied
	case errors.Is(err, game.ErrInvalidCell):
		return reasonInvalid
	case errors.Is(err, game.ErrMatchFinished):
		return reasonNotRunning
	default:
		return err.Error()
	}
}

// finish 棋盘终局：记分、逐个下发 game_over、拆除对局
func (c *Coordinator) finish(m *game.Match, res game.MoveOutcome, out *outbox) {
	first, second := m.Players[0], m.Players[1]
	result := standings.Draw
	var winner *string
	if res.Winner != nil {
		winner = &res.Winner.Nickname
		result = standings.Loss
		if res.Winner.ID == first.ID {
			result = standings.Win
		}
	}
	if err := c.ledger.RecordOutcome(first.Nickname, second.Nickname, result); err != nil {
		c.log.Errorw("record outcome failed", "match", m.ID, "err", err)
	}
	board := c.ledger.Snapshot()

	for _, pl := range m.Players {
		o := result
		if pl.ID != first.ID {
			o = result.Invert()
		}
		out.add(pl.ID, EventGameOver, GameOver{
			Board:       res.Board,
			Winner:      winner,
			WinningLine: res.Line,
			Points:      standings.Points(o),
			IsDraw:      res.Draw,
			Leaderboard: board,
			MyNickname:  pl.Nickname,
		})
	}
	if res.Draw {
		c.metrics.IncDraws()
	}
	c.log.Infow("match finished", "match", m.ID, "result_first", result.String(), "draw", res.Draw)
	c.teardown(m)
}

func (c *Coordinator) cancel(cmd Command, out *outbox) {
	msg := msgResetScreen
	if c.queue.Cancel(cmd.Conn) {
		msg = msgCanceled
		c.metrics.IncCancels()
		c.log.Infow("matchmaking canceled", "conn", cmd.Conn)
	} else {
		c.log.Debugw("cancel without queue entry", "conn", cmd.Conn)
	}
	out.add(cmd.Conn, EventMatchmakingStatus, MatchmakingStatus{Status: StatusCanceled, Message: msg})
}

// forfeit 认输与掉线共用：对手获胜并拆除对局
func (c *Coordinator) forfeit(id game.PlayerID, disconnected bool, out *outbox) {
	m, ok := c.activeMatch(id)
	if !ok {
		if !disconnected {
			c.ignore(Forfeit(id), "no active match")
		}
		return
	}
	res, err := m.Forfeit(id)
	if err != nil {
		c.log.Warnw("forfeit failed", "match", m.ID, "conn", id, "err", err)
		return
	}
	winner, loser := res.Winner, res.Loser
	if err := c.ledger.RecordOutcome(winner.Nickname, loser.Nickname, standings.Win); err != nil {
		c.log.Errorw("record outcome failed", "match", m.ID, "err", err)
	}
	board := c.ledger.Snapshot()

	msg := msgOpponentQuit
	if disconnected {
		msg = msgOpponentLeft
	}
	out.add(winner.ID, EventOpponentDisconnected, OpponentDisconnected{
		Message:     msg,
		Points:      standings.PointsWin,
		Leaderboard: board,
	})
	// 主动认输的一方仍在线，告知其结果
	if !disconnected {
		out.add(loser.ID, EventGameOver, GameOver{
			Board:       res.Board,
			Winner:      &winner.Nickname,
			Points:      standings.PointsLoss,
			Forfeit:     true,
			Leaderboard: board,
			MyNickname:  loser.Nickname,
		})
	}
	c.metrics.IncForfeits()
	c.log.Infow("match forfeited", "match", m.ID, "winner", winner.Nickname, "loser", loser.Nickname, "disconnected", disconnected)
	c.teardown(m)
}

// teardown 在产生终局的同一步内移除对局及双方索引
func (c *Coordinator) teardown(m *game.Match) {
	delete(c.matches, m.ID)
	for _, pl := range m.Players {
		delete(c.byPlayer, pl.ID)
	}
	c.metrics.IncMatchesFinished()
}

// Metrics 返回指标（指针共享，可并发读取）
func (c *Coordinator) Metrics() *Metrics { return c.metrics }

// Stats 指标快照 + 当前队列长度与在线对局数
func (c *Coordinator) Stats() map[string]any {
	snap := c.metrics.Snapshot()
	c.mu.Lock()
	snap["queue_depth"] = c.queue.Len()
	snap["live_matches"] = len(c.matches)
	c.mu.Unlock()
	return snap
}

// Where 返回连接当前所处的位置，用于诊断与测试
func (c *Coordinator) Where(id game.PlayerID) (waiting bool, matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Contains(id), c.byPlayer[id]
}
