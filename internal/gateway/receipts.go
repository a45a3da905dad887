package gateway

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/ademaro/linka/internal/entity"
)

// ReadReceipts drives the read-state protocol: explicit markAsRead,
// the chat_open shortcut, and counter reconciliation from the durable
// store. The durable update always lands before any notification goes
// out.
type ReadReceipts struct {
	store    MessageStore
	registry *Registry
	unread   *UnreadStore
}

// NewReadReceipts creates a new ReadReceipts
func NewReadReceipts(store MessageStore, registry *Registry, unread *UnreadStore) *ReadReceipts {
	return &ReadReceipts{
		store:    store,
		registry: registry,
		unread:   unread,
	}
}

// MarkAsRead marks everything peer sent to reader as read, zeroes the
// reader's counter for peer, and notifies peer with messagesRead if any
// rows actually flipped. Repeats are harmless: zero rows flipped means
// no notification.
func (r *ReadReceipts) MarkAsRead(ctx context.Context, reader *Client, data *MarkAsReadData) error {
	if data.SenderId == 0 || data.SenderId == reader.UserId {
		return ErrInvalidEvent
	}
	_, err := r.MarkReadFor(ctx, reader.UserId, data.SenderId, data.Before)
	return err
}

// ChatOpen records which conversation the reader is looking at and marks
// it read in the same motion. A with_user_id of zero closes the active
// chat without touching read state. Reopening the already-open chat is a
// full no-op: repeated UI focus events must not hit the store again.
func (r *ReadReceipts) ChatOpen(ctx context.Context, reader *Client, data *ChatOpenData) error {
	if data.UserId != 0 && data.UserId != reader.UserId {
		return ErrSenderMismatch
	}

	if data.WithUserId == 0 {
		reader.SetActiveChat(0)
		return nil
	}
	if reader.ActiveChat() == data.WithUserId {
		return nil
	}

	reader.SetActiveChat(data.WithUserId)
	_, err := r.MarkReadFor(ctx, reader.UserId, data.WithUserId, 0)
	return err
}

// ReconcileUnread rebuilds the reader's in-memory counters from the
// durable store and pushes the complete unreadCounts snapshot. The
// snapshot overwrites whatever the client holds; it is the recovery path
// for any unreadUpdate lost in flight.
func (r *ReadReceipts) ReconcileUnread(ctx context.Context, reader *Client) error {
	counts, err := r.store.GroupedUnreadCounts(ctx, reader.UserId)
	if err != nil {
		return err
	}

	r.unread.Replace(reader.UserId, counts)

	if err := reader.Push(EvtUnreadCounts, counts); err != nil {
		log.CtxDebug(ctx, "unread counts push failed: user_id=%d, error=%v", reader.UserId, err)
	}
	return nil
}

// MarkReadFor is the reader-agnostic core of the mark-read flow. The
// REST surface calls it directly, which is why it takes an id rather
// than a live connection. Returns the number of rows flipped.
func (r *ReadReceipts) MarkReadFor(ctx context.Context, readerId, peerId, before int64) (int64, error) {
	affected, err := r.store.MarkRead(ctx, peerId, readerId, before)
	if err != nil {
		return 0, err
	}

	r.unread.Reset(readerId, peerId)

	// Sync the reader's own UI to the zeroed counter
	if reader := r.registry.Lookup(readerId); reader != nil {
		zero := &UnreadUpdateData{From: peerId, Count: 0}
		if err := reader.Push(EvtUnreadUpdate, zero); err != nil {
			log.CtxDebug(ctx, "zero count push failed: reader_id=%d, error=%v", readerId, err)
		}
	}

	if affected == 0 {
		return 0, nil
	}

	log.CtxInfo(ctx, "messages read: reader_id=%d, peer_id=%d, count=%d", readerId, peerId, affected)

	if peer := r.registry.Lookup(peerId); peer != nil {
		data := &MessagesReadData{By: readerId, Timestamp: entity.NowUnixMilli()}
		if err := peer.Push(EvtMessagesRead, data); err != nil {
			log.CtxDebug(ctx, "messages read push failed: peer_id=%d, error=%v", peerId, err)
		}
	}
	return affected, nil
}
