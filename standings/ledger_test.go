package standings

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRecordOutcomeWinIsSymmetric(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RecordOutcome("alice", "bob", Win))

	a, ok := l.Get("alice")
	require.True(t, ok)
	b, ok := l.Get("bob")
	require.True(t, ok)

	assert.Equal(t, Record{Wins: 1, Score: 200, LastUpdated: a.LastUpdated}, a)
	assert.Equal(t, Record{Losses: 1, Score: -50, LastUpdated: b.LastUpdated}, b)

	require.NoError(t, l.RecordOutcome("alice", "bob", Loss))
	a, _ = l.Get("alice")
	b, _ = l.Get("bob")
	assert.Equal(t, 150, a.Score)
	assert.Equal(t, 150, b.Score)
	assert.Equal(t, 1, a.Losses)
	assert.Equal(t, 1, b.Wins)
}

func TestRecordOutcomeDraw(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RecordOutcome("alice", "bob", Draw))
	for _, name := range []string{"alice", "bob"} {
		r, ok := l.Get(name)
		require.True(t, ok)
		assert.Equal(t, 1, r.Draws)
		assert.Equal(t, 50, r.Score)
	}
}

func TestRecordOutcomeUnknown(t *testing.T) {
	l := NewLedger()
	assert.ErrorIs(t, l.RecordOutcome("alice", "bob", Outcome(0)), ErrUnknownOutcome)
	assert.Equal(t, 0, l.Len())
}

func TestSharedNicknameSharesRecord(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RecordOutcome("sam", "sam", Win))
	r, _ := l.Get("sam")
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 150, r.Score)
}

func TestSnapshotOrdering(t *testing.T) {
	l := NewLedger()
	fixed := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.RecordOutcome("carol", "dave", Win)) // carol 200, dave -50
	require.NoError(t, l.RecordOutcome("bob", "alice", Draw)) // 50, 50
	require.NoError(t, l.RecordOutcome("erin", "frank", Draw))

	snap := l.Snapshot()
	names := make([]string, 0, len(snap))
	for _, e := range snap {
		names = append(names, e.Nickname)
	}
	assert.Equal(t, []string{"carol", "alice", "bob", "erin", "frank", "dave"}, names)
	assert.Equal(t, "1/0/0", snap[0].WLD)
	assert.Equal(t, "13:04:05", snap[0].Time)
	assert.Equal(t, fixed, snap[0].LastUpdated)
}

func TestOutcomeHelpers(t *testing.T) {
	assert.Equal(t, Loss, Win.Invert())
	assert.Equal(t, Win, Loss.Invert())
	assert.Equal(t, Draw, Draw.Invert())
	assert.Equal(t, 200, Points(Win))
	assert.Equal(t, -50, Points(Loss))
	assert.Equal(t, 50, Points(Draw))
	assert.Equal(t, "WIN", Win.String())
}

// 并发写入时，任何快照里所有人的胜场数之和都等于负场数之和
func TestSnapshotNeverSeesHalfAnOutcome(t *testing.T) {
	l := NewLedger()
	done := make(chan struct{})

	var reader errgroup.Group
	reader.Go(func() error {
		for {
			select {
			case <-done:
				return nil
			default:
			}
			wins, losses := 0, 0
			for _, e := range l.Snapshot() {
				wins += e.Wins
				losses += e.Losses
			}
			if wins != losses {
				return fmt.Errorf("torn snapshot: wins=%d losses=%d", wins, losses)
			}
		}
	})

	var writers errgroup.Group
	for w := 0; w < 8; w++ {
		w := w // per-iteration copy (go1.21 loop semantics)
		writers.Go(func() error {
			for i := 0; i < 200; i++ {
				a := fmt.Sprintf("p%d", (w+i)%5)
				b := fmt.Sprintf("q%d", (w*i)%5)
				if err := l.RecordOutcome(a, b, Win); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, writers.Wait())
	close(done)
	require.NoError(t, reader.Wait())

	wins := 0
	for _, e := range l.Snapshot() {
		wins += e.Wins
	}
	assert.Equal(t, 8*200, wins)
}
