package sdk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient is a WebSocket client for the real-time surface. Inbound
// frames land on a buffered channel; slow consumers drop frames rather
// than stall the read loop.
type WSClient struct {
	conn   *websocket.Conn
	events chan WSEvent
	done   chan struct{}
	mu     sync.Mutex
}

// DialWS connects the real-time surface. wsURL is the ws:// or wss://
// endpoint, token is a login token and userId must match its identity.
func DialWS(wsURL, token string, userId int64) (*WSClient, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse ws url: %w", err)
	}

	query := u.Query()
	query.Set("token", token)
	query.Set("send_id", strconv.FormatInt(userId, 10))
	u.RawQuery = query.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	c := &WSClient{
		conn:   conn,
		events: make(chan WSEvent, 100),
		done:   make(chan struct{}),
	}

	go c.readLoop()

	return c, nil
}

// readLoop reads frames from the connection
func (c *WSClient) readLoop() {
	defer close(c.done)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var evt WSEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			continue
		}

		select {
		case c.events <- evt:
		default:
			// Channel full, drop event
		}
	}
}

// Emit sends an event with the given payload
func (c *WSClient) Emit(name string, payload interface{}) error {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = b
	}

	frame, err := json.Marshal(WSEvent{Name: name, Data: data})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// SendMessage sends a chat message to receiverId
func (c *WSClient) SendMessage(receiverId int64, content, clientMsgId string) error {
	return c.Emit("sendMessage", &SendMessagePayload{
		ReceiverId:  receiverId,
		Content:     content,
		ClientMsgId: clientMsgId,
	})
}

// MarkAsRead marks messages from senderId as read
func (c *WSClient) MarkAsRead(senderId int64) error {
	return c.Emit("markAsRead", &MarkAsReadPayload{SenderId: senderId})
}

// OpenChat declares the conversation the user is looking at. Zero
// closes the active chat.
func (c *WSClient) OpenChat(withUserId int64) error {
	return c.Emit("chat_open", &ChatOpenPayload{WithUserId: withUserId})
}

// RequestUnreadCounts asks the server for a full unreadCounts snapshot
func (c *WSClient) RequestUnreadCounts() error {
	return c.Emit("getUnreadCounts", nil)
}

// WaitForEvent waits for the next inbound event with a timeout
func (c *WSClient) WaitForEvent(timeout time.Duration) (*WSEvent, error) {
	select {
	case evt := <-c.events:
		return &evt, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for event")
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	}
}

// WaitForNamed waits for the next inbound event with the given name,
// discarding others, until the timeout elapses.
func (c *WSClient) WaitForNamed(name string, timeout time.Duration) (*WSEvent, error) {
	deadline := time.After(timeout)
	for {
		select {
		case evt := <-c.events:
			if evt.Name == name {
				return &evt, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for %s", name)
		case <-c.done:
			return nil, fmt.Errorf("connection closed")
		}
	}
}

// Close closes the WebSocket connection
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
