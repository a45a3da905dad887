package gateway

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/ademaro/linka/internal/service"
)

// MessageRelay moves messages between two live connections. Persistence
// always happens before any fanout, so a crash mid-relay loses pushes
// but never messages; reconciliation recovers the counters.
type MessageRelay struct {
	store    MessageStore
	registry *Registry
	unread   *UnreadStore
}

// NewMessageRelay creates a new MessageRelay
func NewMessageRelay(store MessageStore, registry *Registry, unread *UnreadStore) *MessageRelay {
	return &MessageRelay{
		store:    store,
		registry: registry,
		unread:   unread,
	}
}

// Relay persists a sendMessage and fans it out: the sender gets the
// authoritative echo, the receiver (if connected) gets the message and,
// unless their active chat is open on the sender, an unread bump. A
// receiver that drops mid-relay is treated as offline, so the counter
// still reflects the undelivered message.
func (r *MessageRelay) Relay(ctx context.Context, sender *Client, data *SendMessageData) error {
	if data.SenderId != 0 && data.SenderId != sender.UserId {
		log.CtxWarn(ctx, "sender id mismatch: conn=%d, claimed=%d", sender.UserId, data.SenderId)
		return ErrSenderMismatch
	}

	msg, err := r.store.SaveMessage(ctx, sender.UserId, &service.SaveMessageRequest{
		ReceiverId:     data.ReceiverId,
		Content:        data.Content,
		AttachmentUrl:  data.AttachmentUrl,
		AttachmentType: data.AttachmentType,
		ClientMsgId:    data.ClientMsgId,
	})
	if err != nil {
		return err
	}

	info := msg.ToMessageInfo()
	info.SenderName = sender.DisplayName

	// Echo to sender first; the echo is the delivery confirmation and
	// carries the server-assigned id and timestamp.
	if err := sender.Push(EvtNewMessage, info); err != nil {
		log.CtxDebug(ctx, "echo failed: user_id=%d, error=%v", sender.UserId, err)
	}

	receiver := r.registry.Lookup(msg.ReceiverId)
	if receiver == nil {
		r.unread.Increment(msg.ReceiverId, sender.UserId)
		return nil
	}

	if err := receiver.Push(EvtNewMessage, info); err != nil {
		// Connection died between lookup and push; same outcome as
		// offline.
		log.CtxDebug(ctx, "deliver failed: receiver_id=%d, error=%v", msg.ReceiverId, err)
		r.unread.Increment(msg.ReceiverId, sender.UserId)
		return nil
	}

	if receiver.ActiveChat() == sender.UserId {
		// Receiver is looking at this conversation; no unread bump,
		// their markAsRead follows.
		return nil
	}

	count := r.unread.Increment(msg.ReceiverId, sender.UserId)
	if err := receiver.Push(EvtUnreadUpdate, &UnreadUpdateData{From: sender.UserId, Count: count}); err != nil {
		log.CtxDebug(ctx, "unread update push failed: receiver_id=%d, error=%v", msg.ReceiverId, err)
	}

	return nil
}
