package gateway

import (
	"encoding/json"

	"github.com/ademaro/linka/internal/entity"
)

// Event is the wire envelope. Every frame in either direction is one
// JSON object: {"event": <name>, "data": <payload>}.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode builds a wire frame for an event with the given payload
func Encode(name string, v interface{}) ([]byte, error) {
	var data json.RawMessage
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Event{Name: name, Data: data})
}

// Decode decodes an event payload into v
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// SendMessageData is the sendMessage payload. SenderId must match the
// connection identity. ClientMsgId is an optional client-generated
// correlation token, persisted and echoed back verbatim.
type SendMessageData struct {
	SenderId       int64  `json:"sender_id"`
	ReceiverId     int64  `json:"receiver_id"`
	Content        string `json:"content"`
	AttachmentUrl  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	ClientMsgId    string `json:"client_msg_id,omitempty"`
}

// MarkAsReadData is the markAsRead payload. Before (unix millis) bounds
// the bulk update when non-zero.
type MarkAsReadData struct {
	SenderId int64 `json:"sender_id"`
	Before   int64 `json:"before,omitempty"`
}

// ChatOpenData is the chat_open payload
type ChatOpenData struct {
	UserId     int64 `json:"user_id"`
	WithUserId int64 `json:"with_user_id"`
}

// CallData carries call-initiate/accept signaling. Signal is an opaque
// SDP blob; the server never parses it.
type CallData struct {
	To     int64           `json:"to"`
	Signal json.RawMessage `json:"signal,omitempty"`
}

// CallTargetData is the rejectCall/endCall payload
type CallTargetData struct {
	To int64 `json:"to"`
}

// IceCandidateData is the inbound ice-candidate payload
type IceCandidateData struct {
	To        int64           `json:"to"`
	Candidate json.RawMessage `json:"candidate"`
}

// UserActivityData is the userActivity payload. Status is optional; an
// empty value keeps the current status and only refreshes liveness.
type UserActivityData struct {
	Status string `json:"status,omitempty"`
}

// UnreadUpdateData notifies one counter change
type UnreadUpdateData struct {
	From  int64 `json:"from"`
	Count int   `json:"count"`
}

// MessagesReadData notifies the original sender that the peer read their
// messages
type MessagesReadData struct {
	By        int64 `json:"by"`
	Timestamp int64 `json:"timestamp"`
}

// OnlineUsersData carries the full online identity set
type OnlineUsersData struct {
	UserIds []int64 `json:"user_ids"`
}

// IncomingCallData is the callee-side ring payload
type IncomingCallData struct {
	From        int64           `json:"from"`
	DisplayName string          `json:"display_name"`
	Signal      json.RawMessage `json:"signal,omitempty"`
}

// CallAcceptedData is the caller-side accept payload
type CallAcceptedData struct {
	From   int64           `json:"from"`
	Signal json.RawMessage `json:"signal,omitempty"`
}

// CallRejectedData carries both real declines and the synthesized
// offline rejection
type CallRejectedData struct {
	UserId int64  `json:"user_id"`
	Reason string `json:"reason"`
}

// CallEndedData is the hang-up payload
type CallEndedData struct {
	UserId int64 `json:"user_id"`
}

// IceForwardData is the outbound ice-candidate payload
type IceForwardData struct {
	From      int64           `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}

// ErrorData is the error event payload
type ErrorData struct {
	Message string `json:"message"`
}

// NewMessageData is the newMessage payload sent to both parties
type NewMessageData = entity.MessageInfo
