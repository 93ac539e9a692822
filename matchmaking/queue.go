// Package matchmaking 维护等待队列，并按先来先配的顺序两两配对
package matchmaking

import (
	"time"

	"xoarena/game"
)

// Entry 等待中的一条连接
type Entry struct {
	ID       game.PlayerID
	Nickname string
	JoinedAt time.Time
}

// Pair 一次配对结果，First 为更早入队者
type Pair struct {
	First  Entry
	Second Entry
}

// Queue FIFO 等待队列。非并发安全，由上层（session.Coordinator）串行访问
type Queue struct {
	entries []Entry
	index   map[game.PlayerID]struct{}
}

func NewQueue() *Queue {
	return &Queue{index: make(map[game.PlayerID]struct{})}
}

// Enqueue 已在队列中时为 no-op，返回 false
func (q *Queue) Enqueue(id game.PlayerID, nickname string) bool {
	if q.Contains(id) {
		return false
	}
	q.push(Entry{ID: id, Nickname: nickname, JoinedAt: time.Now()})
	return true
}

func (q *Queue) push(e Entry) {
	q.entries = append(q.entries, e)
	q.index[e.ID] = struct{}{}
}

func (q *Queue) pop() Entry {
	e := q.entries[0]
	q.entries[0] = Entry{}
	q.entries = q.entries[1:]
	delete(q.index, e.ID)
	return e
}

// Cancel 从队列移除，返回之前是否在队列中
func (q *Queue) Cancel(id game.PlayerID) bool {
	if !q.Contains(id) {
		return false
	}
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	delete(q.index, id)
	return true
}

func (q *Queue) Contains(id game.PlayerID) bool {
	_, ok := q.index[id]
	return ok
}

func (q *Queue) Len() int { return len(q.entries) }

// Entries 按入队顺序返回副本
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// TryPair 只要队列中还有两条以上，就取出最早的两条配对。
// 其中失效的连接直接丢弃，仍在线的一方重新排到队尾后继续尝试。
// isLive 为 nil 时视为全部在线。
func (q *Queue) TryPair(isLive func(game.PlayerID) bool) []Pair {
	if isLive == nil {
		isLive = func(game.PlayerID) bool { return true }
	}
	var pairs []Pair
	for q.Len() >= 2 {
		a, b := q.pop(), q.pop()
		aLive, bLive := isLive(a.ID), isLive(b.ID)
		if aLive && bLive {
			pairs = append(pairs, Pair{First: a, Second: b})
			continue
		}
		if aLive {
			q.push(a)
		}
		if bLive {
			q.push(b)
		}
	}
	return pairs
}
