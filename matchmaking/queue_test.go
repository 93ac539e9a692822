package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xoarena/game"
)

func ids(entries []Entry) []game.PlayerID {
	out := make([]game.PlayerID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestEnqueueIsIdempotent(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.Enqueue("p1", "alice"))
	assert.False(t, q.Enqueue("p1", "alice again"))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, "alice", q.Entries()[0].Nickname)
}

func TestCancel(t *testing.T) {
	q := NewQueue()
	q.Enqueue("p1", "a")
	q.Enqueue("p2", "b")
	q.Enqueue("p3", "c")

	assert.True(t, q.Cancel("p2"))
	assert.False(t, q.Cancel("p2"))
	assert.False(t, q.Cancel("nobody"))
	assert.Equal(t, []game.PlayerID{"p1", "p3"}, ids(q.Entries()))
	assert.False(t, q.Contains("p2"))

	// 取消后可以重新入队
	assert.True(t, q.Enqueue("p2", "b"))
	assert.Equal(t, []game.PlayerID{"p1", "p3", "p2"}, ids(q.Entries()))
}

func TestTryPairIsFIFO(t *testing.T) {
	q := NewQueue()
	for _, id := range []game.PlayerID{"p1", "p2", "p3", "p4", "p5"} {
		q.Enqueue(id, string(id))
	}
	pairs := q.TryPair(nil)
	require.Len(t, pairs, 2)
	assert.Equal(t, game.PlayerID("p1"), pairs[0].First.ID)
	assert.Equal(t, game.PlayerID("p2"), pairs[0].Second.ID)
	assert.Equal(t, game.PlayerID("p3"), pairs[1].First.ID)
	assert.Equal(t, game.PlayerID("p4"), pairs[1].Second.ID)
	assert.Equal(t, []game.PlayerID{"p5"}, ids(q.Entries()))
	assert.True(t, q.Contains("p5"))
	assert.False(t, q.Contains("p1"))
}

func TestTryPairNeedsTwo(t *testing.T) {
	q := NewQueue()
	assert.Empty(t, q.TryPair(nil))
	q.Enqueue("p1", "a")
	assert.Empty(t, q.TryPair(nil))
	assert.Equal(t, 1, q.Len())
}

func TestTryPairDropsStaleEntries(t *testing.T) {
	q := NewQueue()
	for _, id := range []game.PlayerID{"p1", "gone", "p3", "p4", "p5"} {
		q.Enqueue(id, string(id))
	}
	live := func(id game.PlayerID) bool { return id != "gone" }

	pairs := q.TryPair(live)
	require.Len(t, pairs, 2)
	// p1 与 gone 被取出后 p1 重新排到队尾
	assert.Equal(t, game.PlayerID("p3"), pairs[0].First.ID)
	assert.Equal(t, game.PlayerID("p4"), pairs[0].Second.ID)
	assert.Equal(t, game.PlayerID("p5"), pairs[1].First.ID)
	assert.Equal(t, game.PlayerID("p1"), pairs[1].Second.ID)
	assert.Zero(t, q.Len())
	assert.False(t, q.Contains("gone"))
}

func TestTryPairAllStale(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "a")
	q.Enqueue("b", "b")
	q.Enqueue("c", "c")
	pairs := q.TryPair(func(id game.PlayerID) bool { return id == "c" })
	assert.Empty(t, pairs)
	assert.Equal(t, []game.PlayerID{"c"}, ids(q.Entries()))
}
