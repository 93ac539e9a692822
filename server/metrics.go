package server

import (
	"sync/atomic"
)

// Metrics 传输层运行指标（连接与收发）
type Metrics struct {
	Connected         int64 // 当前在线连接数
	Accepted          int64 // 累计接入
	Disconnects       int64 // 累计断开
	FramesIn          int64 // 收到的文本帧
	BadFrames         int64 // 无法解析或未知类型的帧
	SendsQueued       int64 // 进入发送队列的消息
	ChanFullDiscarded int64 // 因发送队列满被丢弃的消息
}

func NewMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) IncConnected() {
	atomic.AddInt64(&m.Connected, 1)
	atomic.AddInt64(&m.Accepted, 1)
}
func (m *Metrics) IncDisconnected() {
	atomic.AddInt64(&m.Connected, -1)
	atomic.AddInt64(&m.Disconnects, 1)
}
func (m *Metrics) IncFramesIn()          { atomic.AddInt64(&m.FramesIn, 1) }
func (m *Metrics) IncBadFrames()         { atomic.AddInt64(&m.BadFrames, 1) }
func (m *Metrics) IncSendsQueued()       { atomic.AddInt64(&m.SendsQueued, 1) }
func (m *Metrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"connected":           atomic.LoadInt64(&m.Connected),
		"accepted":            atomic.LoadInt64(&m.Accepted),
		"disconnects":         atomic.LoadInt64(&m.Disconnects),
		"frames_in":           atomic.LoadInt64(&m.FramesIn),
		"bad_frames":          atomic.LoadInt64(&m.BadFrames),
		"sends_queued":        atomic.LoadInt64(&m.SendsQueued),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
	}
}
