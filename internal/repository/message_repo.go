package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ademaro/linka/internal/entity"
)

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create creates a new message
func (r *MessageRepo) Create(ctx context.Context, msg *entity.Message) error {
	if msg.CreatedAt == 0 {
		msg.CreatedAt = entity.NowUnixMilli()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetById gets message by id
func (r *MessageRepo) GetById(ctx context.Context, id int64) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetByClientMsgId gets a message by sender_id and client_msg_id
// (idempotency check); nil when absent
func (r *MessageRepo) GetByClientMsgId(ctx context.Context, senderId int64, clientMsgId string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND client_msg_id = ?", senderId, clientMsgId).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// FindBetween returns one page of the conversation between a and b in
// ascending created_at order, plus the total row count for pagination.
// Pages are counted from the newest message backwards.
func (r *MessageRepo) FindBetween(ctx context.Context, a, b int64, page, limit int) ([]*entity.Message, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	pair := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)

	var total int64
	if err := pair.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*entity.Message
	err := pair.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	// Reverse to ascending order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

// MarkRead bulk-updates unread messages from senderId to receiverId to
// read. A non-zero before bounds the update to messages created at or
// before that timestamp. Returns the number of rows updated.
func (r *MessageRepo) MarkRead(ctx context.Context, senderId, receiverId, before int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderId, receiverId, false)
	if before > 0 {
		q = q.Where("created_at <= ?", before)
	}

	now := entity.NowUnixMilli()
	res := q.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	})
	return res.RowsAffected, res.Error
}

// Delete removes a message; only the author may delete. Returns the
// number of rows removed (0 when the message is absent or not owned).
func (r *MessageRepo) Delete(ctx context.Context, id, requesterId int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", id, requesterId).
		Delete(&entity.Message{})
	return res.RowsAffected, res.Error
}

// GroupedUnreadCounts returns, per sender, the count of unread persisted
// messages addressed to ownerId. This is the authoritative source the
// in-memory unread store reconciles against.
func (r *MessageRepo) GroupedUnreadCounts(ctx context.Context, ownerId int64) (map[int64]int, error) {
	type row struct {
		SenderId int64
		Count    int
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", ownerId, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.SenderId] = r.Count
	}
	return counts, nil
}
