package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

type pollResultData struct {
	Question string             `json:"question"`
	Tallies  []domain.PollTally `json:"tallies"`
}

func startPoll(t *testing.T, i *Intercom, sid string, cmd protocol.StartPollCmd) {
	t.Helper()
	require.NoError(t, i.StartPoll(domain.SessionID(sid), cmd))
}

func TestStartPollValidation(t *testing.T) {
	i, _ := newTestIntercom()
	join(t, i, "ABC", "alice", "Alice")
	join(t, i, "ABC", "bob", "Bob")

	require.ErrorIs(t, i.StartPoll("bob", protocol.StartPollCmd{
		Question: "Color?", Options: []string{"Red", "Blue"},
	}), ErrNotAuthorized)

	require.ErrorIs(t, i.StartPoll("alice", protocol.StartPollCmd{
		Question: "", Options: []string{"Red", "Blue"},
	}), ErrBadPoll)
	require.ErrorIs(t, i.StartPoll("alice", protocol.StartPollCmd{
		Question: "Color?", Options: []string{"Red"},
	}), ErrBadPoll)

	startPoll(t, i, "alice", protocol.StartPollCmd{Question: "Color?", Options: []string{"Red", "Blue"}})
	require.ErrorIs(t, i.StartPoll("alice", protocol.StartPollCmd{
		Question: "Again?", Options: []string{"Yes", "No"},
	}), ErrAlreadyActive)

	// The rejected second poll left the first one intact.
	require.NoError(t, i.Vote("bob", 0))
}

func TestVoteSingleChoiceMovesVote(t *testing.T) {
	i, _ := newTestIntercom()
	alice := join(t, i, "ABC", "alice", "Alice")
	join(t, i, "ABC", "bob", "Bob")
	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question:     "Color?",
		Options:      []string{"Red", "Blue"},
		ShowRealtime: true,
	})

	require.NoError(t, i.Vote("bob", 0))
	require.NoError(t, i.Vote("bob", 0)) // same option again, still one vote
	require.NoError(t, i.Vote("bob", 1)) // switching moves the vote

	updates := alice.ofType(t, protocol.NotifyPollUpdate)
	require.NotEmpty(t, updates)
	last := decodePayload[pollResultData](t, updates[len(updates)-1])
	assert.Equal(t, 0, last.Tallies[0].Votes)
	assert.Equal(t, 1, last.Tallies[1].Votes)

	require.ErrorIs(t, i.Vote("bob", 5), ErrInvalidOption)
	require.ErrorIs(t, i.Vote("ghost", 0), ErrNotJoined)
}

func TestVoteMultipleChoiceToggles(t *testing.T) {
	i, _ := newTestIntercom()
	alice := join(t, i, "ABC", "alice", "Alice")
	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question:       "Toppings?",
		Options:        []string{"Cheese", "Salami", "Onion"},
		MultipleChoice: true,
	})

	require.NoError(t, i.Vote("alice", 0))
	require.NoError(t, i.Vote("alice", 1))
	require.NoError(t, i.Vote("alice", 0)) // toggle off

	require.NoError(t, i.EndPoll("alice"))
	ended := alice.ofType(t, protocol.NotifyPollEnded)
	require.Len(t, ended, 1)
	data := decodePayload[pollResultData](t, ended[0])
	assert.Equal(t, 0, data.Tallies[0].Votes)
	assert.Equal(t, 1, data.Tallies[1].Votes)
	assert.Equal(t, 0, data.Tallies[2].Votes)
}

func TestPollAutoEndMatchesExplicitEnd(t *testing.T) {
	i, sched := newTestIntercom()
	alice := join(t, i, "ABC", "alice", "Alice")
	bob := join(t, i, "ABC", "bob", "Bob")
	carol := join(t, i, "ABC", "carol", "Carol")

	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Favorite color?",
		Options:  []string{"Red", "Blue"},
		Duration: 5,
	})
	tasks := sched.take()
	require.Len(t, tasks, 1)
	assert.Equal(t, 5*time.Second, tasks[0].delay)

	require.NoError(t, i.Vote("alice", 0))
	require.NoError(t, i.Vote("bob", 0))
	require.NoError(t, i.Vote("carol", 1))

	// Realtime is off, so voting produced no updates.
	for _, conn := range []*fakeConn{alice, bob, carol} {
		assert.Empty(t, conn.ofType(t, protocol.NotifyPollUpdate))
	}

	tasks[0].fn()

	for _, conn := range []*fakeConn{alice, bob, carol} {
		ended := conn.ofType(t, protocol.NotifyPollEnded)
		require.Len(t, ended, 1)
		data := decodePayload[pollResultData](t, ended[0])
		assert.Equal(t, "Favorite color?", data.Question)
		require.Len(t, data.Tallies, 2)
		assert.Equal(t, "Red", data.Tallies[0].Text)
		assert.Equal(t, 2, data.Tallies[0].Votes)
		assert.Equal(t, 1, data.Tallies[1].Votes)
	}

	// The poll is gone; the timer has nothing left to end.
	require.ErrorIs(t, i.Vote("bob", 0), ErrNoActivePoll)
}

func TestPollDurationClamped(t *testing.T) {
	i, sched := newTestIntercom()
	join(t, i, "ABC", "alice", "Alice")

	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Q?", Options: []string{"A", "B"}, Duration: 2,
	})
	tasks := sched.take()
	require.Len(t, tasks, 1)
	assert.Equal(t, time.Duration(domain.MinPollDurationSec)*time.Second, tasks[0].delay)

	require.NoError(t, i.EndPoll("alice"))
	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Q?", Options: []string{"A", "B"}, Duration: 900,
	})
	tasks = sched.take()
	require.Len(t, tasks, 1)
	assert.Equal(t, time.Duration(domain.MaxPollDurationSec)*time.Second, tasks[0].delay)

	// Duration zero means no timer at all.
	require.NoError(t, i.EndPoll("alice"))
	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Q?", Options: []string{"A", "B"},
	})
	assert.Empty(t, sched.take())
}

func TestStaleTimerIsNoop(t *testing.T) {
	i, sched := newTestIntercom()
	alice := join(t, i, "ABC", "alice", "Alice")

	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "First?", Options: []string{"A", "B"}, Duration: 10,
	})
	tasks := sched.take()
	require.Len(t, tasks, 1)

	require.NoError(t, i.CancelPoll("alice"))
	require.Len(t, alice.ofType(t, protocol.NotifyPollCanceled), 1)

	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Second?", Options: []string{"A", "B"}, Duration: 10,
	})

	// The first poll's timer fires late; the second poll must survive it.
	tasks[0].fn()
	assert.Empty(t, alice.ofType(t, protocol.NotifyPollEnded))
	require.NoError(t, i.Vote("alice", 0))
}

func TestPollTimerAfterHouseDeleted(t *testing.T) {
	i, sched := newTestIntercom()
	join(t, i, "ABC", "alice", "Alice")
	startPoll(t, i, "alice", protocol.StartPollCmd{
		Question: "Q?", Options: []string{"A", "B"}, Duration: 10,
	})
	tasks := sched.take()
	require.Len(t, tasks, 1)

	i.Leave("alice")
	tasks[0].fn() // must not panic or resurrect anything
	assert.Empty(t, i.Overview())
}

func TestEndPollRequiresActivePoll(t *testing.T) {
	i, _ := newTestIntercom()
	join(t, i, "ABC", "alice", "Alice")
	require.ErrorIs(t, i.EndPoll("alice"), ErrNoActivePoll)
	require.ErrorIs(t, i.CancelPoll("alice"), ErrNoActivePoll)
}
