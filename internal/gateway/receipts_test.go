package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceipts_MarkAsRead(t *testing.T) {
	store := newFakeMessageStore()
	store.markReadRows = 3
	s := testServer(store, newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")
	bob, bobConn := connect(s, 2, "Bob")

	s.unread.Increment(2, 1)
	s.unread.Increment(2, 1)

	err := s.receipts.MarkAsRead(context.Background(), bob, &MarkAsReadData{SenderId: 1})
	require.NoError(t, err)

	// Durable update targeted the right direction
	require.Len(t, store.markReadCalls, 1)
	assert.Equal(t, markReadCall{senderId: 1, receiverId: 2}, store.markReadCalls[0])

	// Counter zeroed, reader's UI synced, original sender notified
	assert.Equal(t, 0, s.unread.Get(2, 1))

	zero := bobConn.lastEvent(EvtUnreadUpdate)
	require.NotNil(t, zero)
	var zeroed UnreadUpdateData
	require.NoError(t, Decode(zero.Data, &zeroed))
	assert.Equal(t, int64(1), zeroed.From)
	assert.Zero(t, zeroed.Count)

	receipt := aliceConn.lastEvent(EvtMessagesRead)
	require.NotNil(t, receipt)
	var data MessagesReadData
	require.NoError(t, Decode(receipt.Data, &data))
	assert.Equal(t, int64(2), data.By)
	assert.NotZero(t, data.Timestamp)
}

func TestReceipts_MarkAsReadValidation(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	bob, _ := connect(s, 2, "Bob")

	assert.Error(t, s.receipts.MarkAsRead(context.Background(), bob, &MarkAsReadData{SenderId: 0}))
	assert.Error(t, s.receipts.MarkAsRead(context.Background(), bob, &MarkAsReadData{SenderId: 2}))
}

func TestReceipts_NoReceiptWhenNothingRead(t *testing.T) {
	store := newFakeMessageStore()
	store.markReadRows = 0
	s := testServer(store, newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")
	bob, _ := connect(s, 2, "Bob")

	err := s.receipts.MarkAsRead(context.Background(), bob, &MarkAsReadData{SenderId: 1})
	require.NoError(t, err)

	// Nothing flipped, so no messagesRead goes out
	assert.Nil(t, aliceConn.lastEvent(EvtMessagesRead))
}

func TestReceipts_ChatOpen(t *testing.T) {
	store := newFakeMessageStore()
	store.markReadRows = 2
	s := testServer(store, newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")
	bob, _ := connect(s, 2, "Bob")

	err := s.receipts.ChatOpen(context.Background(), bob, &ChatOpenData{WithUserId: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), bob.ActiveChat())
	assert.Len(t, aliceConn.events(EvtMessagesRead), 1)
	assert.Len(t, store.markReadCalls, 1)

	// Reopening the already-open chat never reaches the store
	err = s.receipts.ChatOpen(context.Background(), bob, &ChatOpenData{WithUserId: 1})
	require.NoError(t, err)
	assert.Len(t, store.markReadCalls, 1)
	assert.Len(t, aliceConn.events(EvtMessagesRead), 1)
}

func TestReceipts_ChatOpenClearsActiveChat(t *testing.T) {
	store := newFakeMessageStore()
	s := testServer(store, newFakePresenceStore())
	bob, _ := connect(s, 2, "Bob")
	bob.SetActiveChat(1)

	err := s.receipts.ChatOpen(context.Background(), bob, &ChatOpenData{WithUserId: 0})
	require.NoError(t, err)

	assert.Zero(t, bob.ActiveChat())
	// Closing a chat is not a read action
	assert.Empty(t, store.markReadCalls)
}

func TestReceipts_ChatOpenIdentityMismatch(t *testing.T) {
	s := testServer(newFakeMessageStore(), newFakePresenceStore())
	bob, _ := connect(s, 2, "Bob")

	err := s.receipts.ChatOpen(context.Background(), bob, &ChatOpenData{UserId: 9, WithUserId: 1})
	assert.ErrorIs(t, err, ErrSenderMismatch)
	assert.Zero(t, bob.ActiveChat())
}

func TestReceipts_ReconcileUnread(t *testing.T) {
	store := newFakeMessageStore()
	store.counts[2] = map[int64]int{1: 4, 3: 1}
	s := testServer(store, newFakePresenceStore())
	bob, bobConn := connect(s, 2, "Bob")

	// Drift the in-memory view away from the durable truth
	s.unread.Replace(2, map[int64]int{1: 1, 9: 6})

	err := s.receipts.ReconcileUnread(context.Background(), bob)
	require.NoError(t, err)

	// Memory now mirrors the database snapshot exactly
	assert.Equal(t, map[int64]int{1: 4, 3: 1}, s.unread.Snapshot(2))

	snap := bobConn.lastEvent(EvtUnreadCounts)
	require.NotNil(t, snap)
	var counts map[int64]int
	require.NoError(t, Decode(snap.Data, &counts))
	assert.Equal(t, map[int64]int{1: 4, 3: 1}, counts)
}

func TestReceipts_RestMarkReadReachesLiveSender(t *testing.T) {
	store := newFakeMessageStore()
	store.markReadRows = 1
	s := testServer(store, newFakePresenceStore())
	_, aliceConn := connect(s, 1, "Alice")

	// Reader acts over REST without a live connection
	affected, err := s.receipts.MarkReadFor(context.Background(), 2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NotNil(t, aliceConn.lastEvent(EvtMessagesRead))
}
