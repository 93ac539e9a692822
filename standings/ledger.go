// Package standings 跨对局累计每个昵称的胜/负/平与积分
package standings

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Outcome 某一方的对局结果
type Outcome int

const (
	Win Outcome = iota + 1
	Loss
	Draw
)

// 积分表
const (
	PointsWin  = 200
	PointsLoss = -50
	PointsDraw = 50
)

var ErrUnknownOutcome = errors.New("unknown outcome")

func (o Outcome) String() string {
	switch o {
	case Win:
		return "WIN"
	case Loss:
		return "LOSS"
	case Draw:
		return "DRAW"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Invert 对手视角的结果
func (o Outcome) Invert() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return o
	}
}

// Points 结果对应的积分变化
func Points(o Outcome) int {
	switch o {
	case Win:
		return PointsWin
	case Loss:
		return PointsLoss
	case Draw:
		return PointsDraw
	default:
		return 0
	}
}

// Record 单个昵称的累计战绩
type Record struct {
	Wins        int
	Losses      int
	Draws       int
	Score       int
	LastUpdated time.Time
}

// Entry 排行榜中的一行
type Entry struct {
	Nickname    string    `json:"nickname"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	Score       int       `json:"score"`
	WLD         string    `json:"wld"`
	Time        string    `json:"time"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Ledger 以昵称为键（同名连接共享一条记录）。
// 一次结果的双方更新在同一把写锁内完成，快照不会看到半条结果。
type Ledger struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{records: make(map[string]*Record), now: time.Now}
}

// RecordOutcome 记录一局结束；每局只能调用一次（不幂等）
func (l *Ledger) RecordOutcome(a, b string, outcomeForA Outcome) error {
	if Points(outcomeForA) == 0 {
		return fmt.Errorf("record %s vs %s: %w", a, b, ErrUnknownOutcome)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.apply(a, outcomeForA, now)
	l.apply(b, outcomeForA.Invert(), now)
	return nil
}

func (l *Ledger) apply(name string, o Outcome, now time.Time) {
	r, ok := l.records[name]
	if !ok {
		r = &Record{}
		l.records[name] = r
	}
	switch o {
	case Win:
		r.Wins++
	case Loss:
		r.Losses++
	case Draw:
		r.Draws++
	}
	r.Score += Points(o)
	r.LastUpdated = now
}

// Get 返回某个昵称的战绩副本
func (l *Ledger) Get(name string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[name]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Snapshot 按积分降序；同分按昵称升序
func (l *Ledger) Snapshot() []Entry {
	l.mu.RLock()
	out := make([]Entry, 0, len(l.records))
	for name, r := range l.records {
		out = append(out, Entry{
			Nickname:    name,
			Wins:        r.Wins,
			Losses:      r.Losses,
			Draws:       r.Draws,
			Score:       r.Score,
			WLD:         fmt.Sprintf("%d/%d/%d", r.Wins, r.Losses, r.Draws),
			Time:        r.LastUpdated.Format(time.TimeOnly),
			LastUpdated: r.LastUpdated,
		})
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Nickname < out[j].Nickname
	})
	return out
}

// Len 已记录的昵称数
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
