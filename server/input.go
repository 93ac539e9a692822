package server

import (
	"strings"

	"xoarena/game"
	"xoarena/session"
)

// InboundMessage 入站 JSON 文本消息
// 示例：{"type":"join_matchmaking","nickname":"alice"}、{"type":"make_move","row":0,"col":2}
type InboundMessage struct {
	Type        string `json:"type"`
	Nickname    string `json:"nickname,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Row         *int   `json:"row,omitempty"`
	Col         *int   `json:"col,omitempty"`
}

// Command 转换为会话命令；未知类型或缺字段返回 false
func (m InboundMessage) Command(conn game.PlayerID) (session.Command, bool) {
	switch strings.ToLower(strings.TrimSpace(m.Type)) {
	case "join_matchmaking":
		name := m.Nickname
		if name == "" {
			name = m.DisplayName
		}
		return session.Join(conn, name), true
	case "make_move":
		if m.Row == nil || m.Col == nil {
			return session.Command{}, false
		}
		return session.Move(conn, *m.Row, *m.Col), true
	case "cancel_matchmaking":
		return session.Cancel(conn), true
	case "forfeit_game":
		return session.Forfeit(conn), true
	default:
		return session.Command{}, false
	}
}

// Envelope 出站消息：{"type":"game_update","data":{...}}
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
