package server

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxMessageSize 入站单帧上限；命令都很小
	maxMessageSize = 4096
)

// writePump 独立协程：从 send 队列写出到 WS，并按 pingInterval 发送心跳
func (c *ClientConn) writePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// keepReading 设置读超时，收到 pong 时顺延
func (c *ClientConn) keepReading(readTimeout time.Duration) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
}
