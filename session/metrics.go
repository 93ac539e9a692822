package session

import "sync/atomic"

// Metrics 对局层面的运行指标
type Metrics struct {
	Joins           int64
	Cancels         int64
	MatchesStarted  int64
	MatchesFinished int64
	Draws           int64
	Forfeits        int64
	MovesAccepted   int64
	MovesRejected   int64
	Ignored         int64 // 与当前上下文不符而被忽略的命令
	StaleDropped    int64 // 配对时被剔除的失效连接
}

func (m *Metrics) IncJoins()           { atomic.AddInt64(&m.Joins, 1) }
func (m *Metrics) IncCancels()         { atomic.AddInt64(&m.Cancels, 1) }
func (m *Metrics) IncMatchesStarted()  { atomic.AddInt64(&m.MatchesStarted, 1) }
func (m *Metrics) IncMatchesFinished() { atomic.AddInt64(&m.MatchesFinished, 1) }
func (m *Metrics) IncDraws()           { atomic.AddInt64(&m.Draws, 1) }
func (m *Metrics) IncForfeits()        { atomic.AddInt64(&m.Forfeits, 1) }
func (m *Metrics) IncMovesAccepted()   { atomic.AddInt64(&m.MovesAccepted, 1) }
func (m *Metrics) IncMovesRejected()   { atomic.AddInt64(&m.MovesRejected, 1) }
func (m *Metrics) IncIgnored()         { atomic.AddInt64(&m.Ignored, 1) }
func (m *Metrics) AddStaleDropped(n int64) {
	atomic.AddInt64(&m.StaleDropped, n)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"joins":            atomic.LoadInt64(&m.Joins),
		"cancels":          atomic.LoadInt64(&m.Cancels),
		"matches_started":  atomic.LoadInt64(&m.MatchesStarted),
		"matches_finished": atomic.LoadInt64(&m.MatchesFinished),
		"draws":            atomic.LoadInt64(&m.Draws),
		"forfeits":         atomic.LoadInt64(&m.Forfeits),
		"moves_accepted":   atomic.LoadInt64(&m.MovesAccepted),
		"moves_rejected":   atomic.LoadInt64(&m.MovesRejected),
		"ignored":          atomic.LoadInt64(&m.Ignored),
		"stale_dropped":    atomic.LoadInt64(&m.StaleDropped),
	}
}
