package session

import "xoarena/game"

// CommandKind 入站命令类型
type CommandKind int

const (
	CmdJoin CommandKind = iota + 1
	CmdMove
	CmdCancel
	CmdForfeit
	CmdDisconnect
)

func (k CommandKind) String() string {
	switch k {
	case CmdJoin:
		return "join_matchmaking"
	case CmdMove:
		return "make_move"
	case CmdCancel:
		return "cancel_matchmaking"
	case CmdForfeit:
		return "forfeit_game"
	case CmdDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Command 绑定到发送连接的一条命令；Nickname 仅 Join 使用，Row/Col 仅 Move 使用
type Command struct {
	Kind     CommandKind
	Conn     game.PlayerID
	Nickname string
	Row      int
	Col      int
}

func Join(conn game.PlayerID, nickname string) Command {
	return Command{Kind: CmdJoin, Conn: conn, Nickname: nickname}
}

func Move(conn game.PlayerID, row, col int) Command {
	return Command{Kind: CmdMove, Conn: conn, Row: row, Col: col}
}

func Cancel(conn game.PlayerID) Command { return Command{Kind: CmdCancel, Conn: conn} }

func Forfeit(conn game.PlayerID) Command { return Command{Kind: CmdForfeit, Conn: conn} }

func Disconnect(conn game.PlayerID) Command { return Command{Kind: CmdDisconnect, Conn: conn} }
