package sdk

import "encoding/json"

// Response represents the standard API response
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// UserInfo represents public user info
type UserInfo struct {
	Id          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Status      string `json:"status"`
	LastSeenAt  int64  `json:"last_seen_at,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password"`
	Avatar      string `json:"avatar,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"user_info"`
}

// UpdateUserRequest represents a profile update request
type UpdateUserRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// MessageInfo represents message info
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

// HistoryPage is one page of conversation history
type HistoryPage struct {
	Messages []*MessageInfo `json:"messages"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
}

// OnlineUsers is the online user id set
type OnlineUsers struct {
	UserIds []int64 `json:"user_ids"`
	Count   int     `json:"count"`
}

// WSEvent is the WebSocket wire envelope
type WSEvent struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the sendMessage event payload
type SendMessagePayload struct {
	SenderId       int64  `json:"sender_id,omitempty"`
	ReceiverId     int64  `json:"receiver_id"`
	Content        string `json:"content"`
	AttachmentUrl  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	ClientMsgId    string `json:"client_msg_id,omitempty"`
}

// MarkAsReadPayload is the markAsRead event payload
type MarkAsReadPayload struct {
	SenderId int64 `json:"sender_id"`
	Before   int64 `json:"before,omitempty"`
}

// ChatOpenPayload is the chat_open event payload
type ChatOpenPayload struct {
	UserId     int64 `json:"user_id,omitempty"`
	WithUserId int64 `json:"with_user_id"`
}
