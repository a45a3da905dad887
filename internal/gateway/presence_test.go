package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademaro/linka/pkg/constant"
)

func TestPresence_ConnectBroadcastsOnlineSet(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)

	_, aliceConn := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	assert.Equal(t, constant.StatusOnline, presence.lastStatus(1))
	assert.Equal(t, constant.StatusOnline, presence.lastStatus(2))

	// Bob's arrival re-broadcast the full set to everyone, Alice included
	broadcast := aliceConn.lastEvent(EvtOnlineUsers)
	require.NotNil(t, broadcast)
	var data OnlineUsersData
	require.NoError(t, Decode(broadcast.Data, &data))
	assert.ElementsMatch(t, []int64{1, 2}, data.UserIds)

	broadcast = bobConn.lastEvent(EvtOnlineUsers)
	require.NotNil(t, broadcast)
	require.NoError(t, Decode(broadcast.Data, &data))
	assert.ElementsMatch(t, []int64{1, 2}, data.UserIds)
}

func TestPresence_DisconnectBroadcastsShrunkSet(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)

	_, aliceConn := connect(s, 1, "Alice")
	bob, _ := connect(s, 2, "Bob")

	bob.Close()
	s.unregisterClient(context.Background(), bob)

	assert.Equal(t, constant.StatusOffline, presence.lastStatus(2))

	broadcast := aliceConn.lastEvent(EvtOnlineUsers)
	require.NotNil(t, broadcast)
	var data OnlineUsersData
	require.NoError(t, Decode(broadcast.Data, &data))
	assert.Equal(t, []int64{1}, data.UserIds)
}

func TestPresence_ActivityStatusChange(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)
	alice, _ := connect(s, 1, "Alice")

	err := s.presence.HandleActivity(context.Background(), alice, &UserActivityData{Status: constant.StatusAway})
	require.NoError(t, err)
	assert.Equal(t, constant.StatusAway, presence.lastStatus(1))
}

func TestPresence_ActivityPingTouchesLastSeen(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)
	alice, _ := connect(s, 1, "Alice")

	before := presence.lastStatus(1)
	err := s.presence.HandleActivity(context.Background(), alice, &UserActivityData{})
	require.NoError(t, err)

	// A bare ping refreshes liveness without flipping status
	assert.Equal(t, before, presence.lastStatus(1))
	assert.Equal(t, 1, presence.touched[1])
}

func TestPresence_ActivityRejectsUnknownStatus(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)
	alice, _ := connect(s, 1, "Alice")

	err := s.presence.HandleActivity(context.Background(), alice, &UserActivityData{Status: "SLEEPING"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.Equal(t, constant.StatusOnline, presence.lastStatus(1))
}

func TestPresence_IsOnline(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	connect(s, 1, "Alice")

	assert.True(t, s.presence.IsOnline(context.Background(), 1))
	assert.False(t, s.presence.IsOnline(context.Background(), 2))
}
