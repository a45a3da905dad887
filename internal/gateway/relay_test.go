package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_BothOnline(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		ReceiverId:  2,
		Content:     "hello",
		ClientMsgId: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.savedCount())

	// Sender echo carries the server-assigned id and the client token
	echo := aliceConn.lastEvent(EvtNewMessage)
	require.NotNil(t, echo)
	var echoed NewMessageData
	require.NoError(t, Decode(echo.Data, &echoed))
	assert.NotZero(t, echoed.Id)
	assert.Equal(t, "c-1", echoed.ClientMsgId)
	assert.Equal(t, "Alice", echoed.SenderName)

	// Receiver gets the message and an unread bump
	delivered := bobConn.lastEvent(EvtNewMessage)
	require.NotNil(t, delivered)

	bump := bobConn.lastEvent(EvtUnreadUpdate)
	require.NotNil(t, bump)
	var update UnreadUpdateData
	require.NoError(t, Decode(bump.Data, &update))
	assert.Equal(t, int64(1), update.From)
	assert.Equal(t, 1, update.Count)
	assert.Equal(t, 1, s.unread.Get(2, 1))
}

func TestRelay_ReceiverOffline(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		ReceiverId: 2,
		Content:    "are you there",
	})
	require.NoError(t, err)

	// Persisted and echoed even though nobody is listening
	assert.Equal(t, 1, store.savedCount())
	assert.NotNil(t, aliceConn.lastEvent(EvtNewMessage))

	// Counter accrues for the offline receiver
	assert.Equal(t, 1, s.unread.Get(2, 1))
}

func TestRelay_ActiveChatSuppressesUnread(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")
	bob, bobConn := connect(s, 2, "Bob")

	// Bob is looking at the conversation with Alice
	bob.SetActiveChat(1)

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		ReceiverId: 2,
		Content:    "hi",
	})
	require.NoError(t, err)

	assert.NotNil(t, bobConn.lastEvent(EvtNewMessage))
	assert.Nil(t, bobConn.lastEvent(EvtUnreadUpdate))
	assert.Equal(t, 0, s.unread.Get(2, 1))
}

func TestRelay_SenderSpoofRejected(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		SenderId:   99,
		ReceiverId: 2,
		Content:    "spoofed",
	})

	assert.ErrorIs(t, err, ErrSenderMismatch)
	assert.Equal(t, 0, store.savedCount())
}

func TestRelay_MidRelayDisconnect(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	alice, _ := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	// Bob's connection dies between lookup and push
	bobConn.failWrites()

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		ReceiverId: 2,
		Content:    "lost in flight",
	})
	require.NoError(t, err)

	// Falls back to the offline path: persisted plus counter bump
	assert.Equal(t, 1, store.savedCount())
	assert.Equal(t, 1, s.unread.Get(2, 1))
}

func TestRelay_PersistFailureStopsFanout(t *testing.T) {
	store := newFakeMessageStore()
	store.saveErr = ErrConnClosed
	s := testServer(store, newFakePresenceStore())
	alice, aliceConn := connect(s, 1, "Alice")
	_, bobConn := connect(s, 2, "Bob")

	err := s.relay.Relay(context.Background(), alice, &SendMessageData{
		ReceiverId: 2,
		Content:    "doomed",
	})

	assert.Error(t, err)
	assert.Nil(t, aliceConn.lastEvent(EvtNewMessage))
	assert.Nil(t, bobConn.lastEvent(EvtNewMessage))
	assert.Equal(t, 0, s.unread.Get(2, 1))
}
