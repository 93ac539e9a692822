package game

import "encoding/json"

// Symbol 棋盘上的标记；零值 Empty 表示空格
type Symbol int8

const (
	Empty Symbol = iota
	X
	O
)

// Other 返回对手的符号（Empty 仍为 Empty）
func (s Symbol) Other() Symbol {
	switch s {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Valid 是否为可落子的符号
func (s Symbol) Valid() bool { return s == X || s == O }

func (s Symbol) String() string {
	switch s {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalJSON 空格输出 null，其余输出 "X"/"O"
func (s Symbol) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON 与 MarshalJSON 对称
func (s *Symbol) UnmarshalJSON(b []byte) error {
	var v *string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch {
	case v == nil, *v == "":
		*s = Empty
	case *v == "X":
		*s = X
	case *v == "O":
		*s = O
	default:
		return ErrInvalidSymbol
	}
	return nil
}
