package entity

// Message represents a persisted one-to-one message. Read state mutates
// only through the mark-read path; content never mutates after create.
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey"`
	SenderId       int64  `json:"sender_id" gorm:"column:sender_id;index:idx_pair,priority:1"`
	ReceiverId     int64  `json:"receiver_id" gorm:"column:receiver_id;index:idx_pair,priority:2"`
	Content        string `json:"content" gorm:"column:content;type:text"`
	AttachmentUrl  string `json:"attachment_url,omitempty" gorm:"column:attachment_url"`
	AttachmentType string `json:"attachment_type,omitempty" gorm:"column:attachment_type;size:16"`
	ClientMsgId    string `json:"client_msg_id,omitempty" gorm:"column:client_msg_id;size:64;index"`
	IsRead         bool   `json:"is_read" gorm:"column:is_read"`
	ReadAt         *int64 `json:"read_at,omitempty" gorm:"column:read_at"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;index"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageInfo is the wire/API representation of a message. SenderName is
// resolved from the live connection identity or the users table; it is not
// a column on messages.
type MessageInfo struct {
	Id             int64  `json:"id"`
	SenderId       int64  `json:"sender_id"`
	SenderName     string `json:"sender_name,omitempty"`
	ReceiverId     int64  `json:"receiver_id"`
	Content        string `json:"content"`
	AttachmentUrl  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	ClientMsgId    string `json:"client_msg_id,omitempty"`
	IsRead         bool   `json:"is_read"`
	ReadAt         *int64 `json:"read_at,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		SenderId:       m.SenderId,
		ReceiverId:     m.ReceiverId,
		Content:        m.Content,
		AttachmentUrl:  m.AttachmentUrl,
		AttachmentType: m.AttachmentType,
		ClientMsgId:    m.ClientMsgId,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}
