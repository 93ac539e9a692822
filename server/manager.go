package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"xoarena/game"
)

// Hub 管理所有在线连接的生命周期，并负责按连接投递事件
type Hub struct {
	mu      sync.RWMutex
	conns   map[game.PlayerID]*ClientConn
	metrics *Metrics
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger, metrics *Metrics) *Hub {
	return &Hub{
		conns:   make(map[game.PlayerID]*ClientConn),
		metrics: metrics,
		log:     log,
	}
}

// Register 登记新连接
func (h *Hub) Register(c *ClientConn) {
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()
	h.metrics.IncConnected()
}

// Unregister 移除连接，返回之前是否存在
func (h *Hub) Unregister(id game.PlayerID) bool {
	h.mu.Lock()
	_, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		h.metrics.IncDisconnected()
	}
	return ok
}

// IsLive 实现 session.Presence
func (h *Hub) IsLive(id game.PlayerID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[id]
	return ok
}

// Notify 实现 session.Notifier：序列化后压入连接的发送队列（非阻塞）
func (h *Hub) Notify(to game.PlayerID, event string, data any) {
	h.mu.RLock()
	c, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		h.log.Debugw("notify to unknown connection", "conn", to, "event", event)
		return
	}
	b, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		h.log.Errorw("encode event failed", "event", event, "err", err)
		return
	}
	if c.Enqueue(b) {
		h.metrics.IncSendsQueued()
		return
	}
	h.metrics.IncChanFullDiscarded()
	h.log.Warnw("send queue full, event dropped", "conn", to, "event", event)
}

// Len 当前连接数
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll 关闭全部连接；读协程退出时会各自触发断开处理
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*ClientConn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.Close()
	}
}
