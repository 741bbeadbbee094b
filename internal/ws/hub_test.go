package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub(zerolog.Nop())
	go h.Run(ctx)
	return h
}

func subscribe(t *testing.T, h *Hub, hr bool, projects ...int64) *Client {
	t.Helper()

	c := NewClient(h, nil, hr, projects)
	want := h.ClientCount() + 1
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == want }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) (Event, bool) {
	t.Helper()

	select {
	case msg := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		return evt, true
	case <-time.After(200 * time.Millisecond):
		return Event{}, false
	}
}

func TestHub_DeliversToProjectSubscribers(t *testing.T) {
	h := startHub(t)
	all := subscribe(t, h, false)
	seven := subscribe(t, h, false, 7)
	other := subscribe(t, h, false, 8, 9)

	h.Publish(EventTeamStaffed, 7, map[string]int{"filled": 2, "vacant": 1})

	evt, ok := receive(t, all)
	require.True(t, ok)
	assert.Equal(t, EventTeamStaffed, evt.Type)
	assert.Equal(t, int64(7), evt.ProjectID)
	assert.False(t, evt.At.IsZero())

	_, ok = receive(t, seven)
	assert.True(t, ok)
	_, ok = receive(t, other)
	assert.False(t, ok)
}

func TestHub_DevelopmentProposalOnlyReachesHR(t *testing.T) {
	h := startHub(t)
	staff := subscribe(t, h, false)
	hr := subscribe(t, h, true, 3)

	h.Publish(EventDevelopmentProposal, 3, map[string]int64{"assignment_id": 12})

	evt, ok := receive(t, hr)
	require.True(t, ok)
	assert.Equal(t, EventDevelopmentProposal, evt.Type)

	_, ok = receive(t, staff)
	assert.False(t, ok)
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := startHub(t)
	c := subscribe(t, h, true)
	for i := 0; i < cap(c.send); i++ {
		c.send <- []byte("{}")
	}

	h.Publish(EventVacanciesBackfilled, 1, nil)

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := NewClient(h, nil, false, nil)
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	_, open := <-c.send
	assert.False(t, open)
	assert.Equal(t, 0, h.ClientCount())
}

func TestNilHubIsSafe(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.Publish(EventTeamStaffed, 1, nil)
		assert.Equal(t, 0, h.ClientCount())
	})
}

func TestParseProjects(t *testing.T) {
	ids, err := ParseProjects(" 4, 2 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids)

	ids, err = ParseProjects("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = ParseProjects("4,x")
	assert.Error(t, err)
	_, err = ParseProjects("0")
	assert.Error(t, err)
}
