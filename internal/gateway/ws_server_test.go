package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademaro/linka/pkg/constant"
)

func TestWsServer_SessionReplaced(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())

	first, firstConn := connect(s, 1, "Alice")
	second, _ := connect(s, 1, "Alice")

	// The old connection is told why it is going away, then closed
	assert.NotNil(t, firstConn.lastEvent(EvtSessionReplaced))
	assert.True(t, first.IsClosed())
	assert.False(t, second.IsClosed())
	assert.Same(t, second, s.registry.Lookup(1))
	assert.Equal(t, 1, s.GetOnlineUserCount())
}

func TestWsServer_DisplacedDisconnectKeepsUserOnline(t *testing.T) {
	presence := newFakePresenceStore()
	s := testServer(newFakeMessageStore(), presence)

	first, _ := connect(s, 1, "Alice")
	second, _ := connect(s, 1, "Alice")

	// The displaced connection's cleanup arrives after the takeover
	s.unregisterClient(context.Background(), first)

	assert.Same(t, second, s.registry.Lookup(1))
	assert.Equal(t, constant.StatusOnline, presence.lastStatus(1))

	// The real disconnect takes the user offline
	s.unregisterClient(context.Background(), second)
	assert.Nil(t, s.registry.Lookup(1))
	assert.Equal(t, constant.StatusOffline, presence.lastStatus(1))
}

func TestWsServer_ConnectSeedsUnreadSnapshot(t *testing.T) {
	store := newFakeMessageStore()
	store.counts[1] = map[int64]int{7: 2}
	s := testServer(store, newFakePresenceStore())

	_, conn := connect(s, 1, "Alice")

	snap := conn.lastEvent(EvtUnreadCounts)
	require.NotNil(t, snap)
	var counts map[int64]int
	require.NoError(t, Decode(snap.Data, &counts))
	assert.Equal(t, map[int64]int{7: 2}, counts)
	assert.Equal(t, map[int64]int{7: 2}, s.unread.Snapshot(1))
}

func TestWsServer_DisconnectDropsUnreadCache(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")
	s.unread.Increment(1, 2)

	s.unregisterClient(context.Background(), alice)

	// In-memory counters are rebuilt from the durable store on reconnect
	assert.Empty(t, s.unread.Snapshot(1))
}

func TestClient_HandleEventDispatch(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")

	t.Run("sendMessage frame relays", func(t *testing.T) {
		frame, err := Encode(EvtSendMessage, &SendMessageData{ReceiverId: 2, Content: "via wire"})
		require.NoError(t, err)

		alice.handleEvent(frame)
		assert.Equal(t, 1, store.savedCount())
		assert.NotNil(t, aliceConn.lastEvent(EvtNewMessage))
	})

	t.Run("unknown event answered with error", func(t *testing.T) {
		alice.handleEvent([]byte(`{"event":"teleport","data":{}}`))

		errEvt := aliceConn.lastEvent(EvtError)
		require.NotNil(t, errEvt)
		assert.False(t, alice.IsClosed())
	})

	t.Run("malformed frame answered with error", func(t *testing.T) {
		before := len(aliceConn.events(EvtError))
		alice.handleEvent([]byte(`{not json`))

		assert.Len(t, aliceConn.events(EvtError), before+1)
		assert.False(t, alice.IsClosed())
	})

	t.Run("spoofed sender answered with error", func(t *testing.T) {
		frame, err := Encode(EvtSendMessage, &SendMessageData{SenderId: 42, ReceiverId: 2, Content: "x"})
		require.NoError(t, err)

		saved := store.savedCount()
		alice.handleEvent(frame)
		assert.Equal(t, saved, store.savedCount())
		assert.NotNil(t, aliceConn.lastEvent(EvtError))
	})
}

func TestClient_PushAfterClose(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")

	require.NoError(t, alice.Close())
	assert.ErrorIs(t, alice.Push(EvtNewMessage, nil), ErrConnClosed)
}
