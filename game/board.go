package game

import "errors"

// Size 棋盘边长（固定 3×3）
const Size = 3

var (
	ErrInvalidCell   = errors.New("invalid cell")
	ErrCellOccupied  = errors.New("cell already occupied")
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Board 3×3 棋盘，值类型：赋值即拷贝
type Board [Size][Size]Symbol

// lines 8 条胜利线（按格子的行优先下标 0..8），扫描顺序：行 → 列 → 对角线
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// WinLine 胜者符号与连成一线的三个格子下标
type WinLine struct {
	Symbol Symbol
	Cells  [3]int
}

// InBounds 行列是否落在棋盘内
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Apply 返回在 (row,col) 落下 s 之后的新棋盘，原棋盘不变
func (b Board) Apply(row, col int, s Symbol) (Board, error) {
	if !s.Valid() {
		return b, ErrInvalidSymbol
	}
	if !InBounds(row, col) {
		return b, ErrInvalidCell
	}
	if b[row][col] != Empty {
		return b, ErrCellOccupied
	}
	b[row][col] = s
	return b, nil
}

// Full 所有格子都已落子
func (b Board) Full() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

func (b Board) at(i int) Symbol { return b[i/Size][i%Size] }

// DetectWinner 按固定顺序扫描，返回第一条三格相同且非空的线
func DetectWinner(b Board) (WinLine, bool) {
	for _, l := range lines {
		s := b.at(l[0])
		if s != Empty && s == b.at(l[1]) && s == b.at(l[2]) {
			return WinLine{Symbol: s, Cells: l}, true
		}
	}
	return WinLine{}, false
}

// IsDraw 无胜者且棋盘已满
func IsDraw(b Board, hasWinner bool) bool {
	return !hasWinner && b.Full()
}
