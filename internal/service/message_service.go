package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/ademaro/linka/internal/entity"
	"github.com/ademaro/linka/internal/repository"
	"github.com/ademaro/linka/pkg/errcode"
	"github.com/ademaro/linka/pkg/idgen"
)

// MessageService handles message-related business logic. It is the single
// authoritative creation point for messages and implements the durable
// side of the gateway's relay and read-receipt paths.
type MessageService struct {
	msgRepo  *repository.MessageRepo
	userRepo *repository.UserRepo
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories) *MessageService {
	return &MessageService{
		msgRepo:  repos.Message,
		userRepo: repos.User,
	}
}

// SaveMessageRequest represents a message to persist
type SaveMessageRequest struct {
	ReceiverId     int64  `json:"receiver_id"`
	Content        string `json:"content"`
	AttachmentUrl  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	ClientMsgId    string `json:"client_msg_id,omitempty"`
}

// SaveMessage validates and persists a new message. A repeated
// (sender, client_msg_id) pair returns the already-persisted row, so
// client retries never create duplicates.
func (s *MessageService) SaveMessage(ctx context.Context, senderId int64, req *SaveMessageRequest) (*entity.Message, error) {
	if req.ReceiverId == 0 || req.ReceiverId == senderId {
		return nil, errcode.ErrInvalidParam
	}
	if req.Content == "" && req.AttachmentUrl == "" {
		return nil, errcode.ErrInvalidParam
	}

	exists, err := s.userRepo.Exists(ctx, req.ReceiverId)
	if err != nil {
		log.CtxError(ctx, "check receiver failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !exists {
		return nil, errcode.ErrReceiverMissing
	}

	if req.ClientMsgId != "" {
		existing, err := s.msgRepo.GetByClientMsgId(ctx, senderId, req.ClientMsgId)
		if err != nil {
			log.CtxError(ctx, "check idempotency failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		if existing != nil {
			log.CtxDebug(ctx, "duplicate message: sender_id=%d, client_msg_id=%s", senderId, req.ClientMsgId)
			return existing, nil
		}
	}

	id, err := idgen.NextId()
	if err != nil {
		log.CtxError(ctx, "allocate message id failed: %v", err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	msg := &entity.Message{
		Id:             id,
		SenderId:       senderId,
		ReceiverId:     req.ReceiverId,
		Content:        req.Content,
		AttachmentUrl:  req.AttachmentUrl,
		AttachmentType: req.AttachmentType,
		ClientMsgId:    req.ClientMsgId,
		CreatedAt:      entity.NowUnixMilli(),
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		log.CtxError(ctx, "persist message failed: sender_id=%d, receiver_id=%d, error=%v",
			senderId, req.ReceiverId, err)
		return nil, errcode.ErrSendFailed.Wrap(err)
	}

	log.CtxInfo(ctx, "message persisted: id=%d, sender_id=%d, receiver_id=%d", msg.Id, senderId, req.ReceiverId)
	return msg, nil
}

// HistoryPage is one page of a two-party conversation
type HistoryPage struct {
	Messages []*entity.MessageInfo `json:"messages"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
}

// History returns one page of the conversation between userId and peerId
// in ascending order. It does not touch read state; read receipts are the
// only path that mutates is_read.
func (s *MessageService) History(ctx context.Context, userId, peerId int64, page, limit int) (*HistoryPage, error) {
	if peerId == 0 {
		return nil, errcode.ErrInvalidParam
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	messages, total, err := s.msgRepo.FindBetween(ctx, userId, peerId, page, limit)
	if err != nil {
		log.CtxError(ctx, "history query failed: user_id=%d, peer_id=%d, error=%v", userId, peerId, err)
		return nil, errcode.ErrHistoryFailed
	}

	infos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		infos = append(infos, msg.ToMessageInfo())
	}

	return &HistoryPage{
		Messages: infos,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Delete removes a message; author-only
func (s *MessageService) Delete(ctx context.Context, msgId, requesterId int64) error {
	affected, err := s.msgRepo.Delete(ctx, msgId, requesterId)
	if err != nil {
		log.CtxError(ctx, "delete message failed: id=%d, error=%v", msgId, err)
		return errcode.ErrInternalServer
	}
	if affected == 0 {
		return errcode.ErrNotAuthor
	}
	log.CtxInfo(ctx, "message deleted: id=%d, by=%d", msgId, requesterId)
	return nil
}

// MarkRead bulk-marks messages from senderId to receiverId as read,
// optionally bounded by a created-at timestamp. Returns rows updated.
func (s *MessageService) MarkRead(ctx context.Context, senderId, receiverId, before int64) (int64, error) {
	affected, err := s.msgRepo.MarkRead(ctx, senderId, receiverId, before)
	if err != nil {
		log.CtxError(ctx, "mark read failed: sender_id=%d, receiver_id=%d, error=%v", senderId, receiverId, err)
		return 0, errcode.ErrMarkReadFailed.Wrap(err)
	}
	return affected, nil
}

// GroupedUnreadCounts returns the per-sender unread counts for ownerId
// from the durable store.
func (s *MessageService) GroupedUnreadCounts(ctx context.Context, ownerId int64) (map[int64]int, error) {
	counts, err := s.msgRepo.GroupedUnreadCounts(ctx, ownerId)
	if err != nil {
		log.CtxError(ctx, "grouped unread counts failed: owner_id=%d, error=%v", ownerId, err)
		return nil, errcode.ErrInternalServer
	}
	return counts, nil
}
