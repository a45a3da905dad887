package gateway

import (
	"context"

	"github.com/ademaro/linka/internal/entity"
	"github.com/ademaro/linka/internal/service"
)

// MessageStore is the durable side of the relay and read-receipt paths.
// Implemented by service.MessageService.
type MessageStore interface {
	SaveMessage(ctx context.Context, senderId int64, req *service.SaveMessageRequest) (*entity.Message, error)
	MarkRead(ctx context.Context, senderId, receiverId, before int64) (int64, error)
	GroupedUnreadCounts(ctx context.Context, ownerId int64) (map[int64]int, error)
}

// PresenceStore persists user presence fields. Implemented by
// repository.UserRepo.
type PresenceStore interface {
	SetStatus(ctx context.Context, userId int64, status string) error
	TouchLastSeen(ctx context.Context, userId int64) error
}

// UserDirectory resolves user identities at handshake time. Implemented
// by repository.UserRepo.
type UserDirectory interface {
	GetById(ctx context.Context, userId int64) (*entity.User, error)
}
