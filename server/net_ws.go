package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"xoarena/game"
	"xoarena/session"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ID   game.PlayerID
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClientConn(id game.PlayerID, ws *websocket.Conn, buffer int) *ClientConn {
	return &ClientConn{
		ID:   id,
		ws:   ws,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃），返回是否入队
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭底层连接并通知写协程退出；可重复调用
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Dispatcher 接收入站命令（由 session.Coordinator 实现）
type Dispatcher interface {
	Dispatch(cmd session.Command)
}

// GatewayOptions 连接层参数
type GatewayOptions struct {
	SendBuffer     int
	PingInterval   time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// Gateway WebSocket 接入：每条连接分配一个 PlayerID，读到的命令交给 Dispatcher
type Gateway struct {
	opts       GatewayOptions
	hub        *Hub
	dispatcher Dispatcher
	metrics    *Metrics
	log        *zap.SugaredLogger
	upgrader   websocket.Upgrader
}

func NewGateway(opts GatewayOptions, hub *Hub, d Dispatcher, metrics *Metrics, log *zap.SugaredLogger) *Gateway {
	g := &Gateway{opts: opts, hub: hub, dispatcher: d, metrics: metrics, log: log}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// checkOrigin 非浏览器客户端不带 Origin，直接放行
func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range g.opts.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	g.log.Warnw("websocket origin rejected", "origin", origin)
	return false
}

// HandleWS 升级为 WebSocket 并启动读写协程
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnw("upgrade error", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := game.PlayerID(uuid.NewString())
	client := NewClientConn(id, ws, g.opts.SendBuffer)
	g.hub.Register(client)
	g.log.Infow("client connected", "conn", id, "remote", r.RemoteAddr)

	go client.writePump(g.opts.PingInterval, g.opts.WriteTimeout)
	go g.readPump(client)
}

// readPump 读取客户端命令；退出时先注销连接再按断开处理（对局中即判负）
func (g *Gateway) readPump(c *ClientConn) {
	defer func() {
		g.hub.Unregister(c.ID)
		g.dispatcher.Dispatch(session.Disconnect(c.ID))
		c.Close()
		g.log.Infow("client disconnected", "conn", c.ID)
	}()
	c.keepReading(g.opts.ReadTimeout)

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Debugw("read error", "conn", c.ID, "err", err)
			}
			return
		}
		g.metrics.IncFramesIn()

		var im InboundMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			g.metrics.IncBadFrames()
			g.log.Debugw("malformed frame", "conn", c.ID, "err", err)
			continue
		}
		cmd, ok := im.Command(c.ID)
		if !ok {
			g.metrics.IncBadFrames()
			g.log.Debugw("unsupported message", "conn", c.ID, "type", im.Type)
			continue
		}
		g.dispatcher.Dispatch(cmd)
	}
}
