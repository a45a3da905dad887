package gateway

import "time"

// Wire event names. These mirror the event surface the web client speaks;
// renaming any of them is a protocol break.
const (
	// Client -> server
	EvtSendMessage     = "sendMessage"
	EvtMarkAsRead      = "markAsRead"
	EvtChatOpen        = "chat_open"
	EvtGetUnreadCounts = "getUnreadCounts"
	EvtUserActivity    = "userActivity"
	EvtCallUser        = "callUser"
	EvtAcceptCall      = "acceptCall"
	EvtRejectCall      = "rejectCall"
	EvtEndCall         = "endCall"

	// Server -> client
	EvtNewMessage      = "newMessage"
	EvtUnreadUpdate    = "unreadUpdate"
	EvtUnreadCounts    = "unreadCounts"
	EvtMessagesRead    = "messagesRead"
	EvtOnlineUsers     = "onlineUsers"
	EvtIncomingCall    = "incomingCall"
	EvtCallAccepted    = "callAccepted"
	EvtCallRejected    = "callRejected"
	EvtCallEnded       = "callEnded"
	EvtSessionReplaced = "sessionReplaced"
	EvtError           = "error"

	// Both directions
	EvtIceCandidate = "ice-candidate"
)

// Call rejection reasons
const (
	CallRejectedOffline  = "offline"
	CallRejectedDeclined = "declined"
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200

	// OnlineKeyTTL is the lifetime of the Redis online marker; activity
	// pings refresh it
	OnlineKeyTTL = 60 * time.Second
)

// Query parameter keys for the handshake
const (
	QueryToken  = "token"
	QuerySendId = "send_id"
)
