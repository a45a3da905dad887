package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/ademaro/linka/pkg/errcode"
)

// Client represents a connected WebSocket client
type Client struct {
	mu          sync.Mutex
	conn        ClientConn
	UserId      int64
	DisplayName string
	Token       string
	ConnId      string
	server      *WsServer
	activeChat  atomic.Int64
	closed      atomic.Bool
	closedErr   error
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId int64, displayName, token, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:        conn,
		UserId:      userId,
		DisplayName: displayName,
		Token:       token,
		ConnId:      connId,
		server:      server,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the client message handling
func (c *Client) Start() {
	go c.readLoop()
}

// readLoop continuously reads messages from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%d, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%d, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		c.handleEvent(message)
	}
}

// handleEvent dispatches a single incoming frame. Handler failures are
// reported back on the error event; the connection stays up so one bad
// frame never drops a session.
func (c *Client) handleEvent(message []byte) {
	var evt Event
	if err := json.Unmarshal(message, &evt); err != nil {
		log.CtxWarn(c.ctx, "malformed frame: user_id=%d, error=%v", c.UserId, err)
		c.PushError(ErrInvalidEvent)
		return
	}

	log.CtxDebug(c.ctx, "received event: event=%s, user_id=%d", evt.Name, c.UserId)

	var err error
	switch evt.Name {
	case EvtSendMessage:
		var data SendMessageData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.relay.Relay(c.ctx, c, &data)
		}
	case EvtMarkAsRead:
		var data MarkAsReadData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.receipts.MarkAsRead(c.ctx, c, &data)
		}
	case EvtChatOpen:
		var data ChatOpenData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.receipts.ChatOpen(c.ctx, c, &data)
		}
	case EvtGetUnreadCounts:
		err = c.server.receipts.ReconcileUnread(c.ctx, c)
	case EvtUserActivity:
		var data UserActivityData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.presence.HandleActivity(c.ctx, c, &data)
		}
	case EvtCallUser:
		var data CallData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.calls.CallUser(c.ctx, c, &data)
		}
	case EvtAcceptCall:
		var data CallData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.calls.AcceptCall(c.ctx, c, &data)
		}
	case EvtRejectCall:
		var data CallTargetData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.calls.RejectCall(c.ctx, c, &data)
		}
	case EvtEndCall:
		var data CallTargetData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.calls.EndCall(c.ctx, c, &data)
		}
	case EvtIceCandidate:
		var data IceCandidateData
		if err = Decode(evt.Data, &data); err == nil {
			err = c.server.calls.ForwardIce(c.ctx, c, &data)
		}
	default:
		err = ErrInvalidEvent
	}

	if err != nil {
		log.CtxWarn(c.ctx, "handle event error: event=%s, user_id=%d, error=%v", evt.Name, c.UserId, err)
		c.PushError(err)
	}
}

// Push encodes and queues an event frame for this client
func (c *Client) Push(name string, v interface{}) error {
	frame, err := Encode(name, v)
	if err != nil {
		return err
	}
	return c.PushRaw(frame)
}

// PushRaw queues an already-encoded frame. Used by broadcasts to encode
// once and fan out.
func (c *Client) PushRaw(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return ErrConnClosed
	}
	return c.conn.WriteMessage(frame)
}

// PushError sends an error event to this client
func (c *Client) PushError(err error) {
	msg := err.Error()
	var ec *errcode.Error
	if errors.As(err, &ec) {
		msg = ec.Msg
	}
	if pushErr := c.Push(EvtError, &ErrorData{Message: msg}); pushErr != nil {
		log.CtxDebug(c.ctx, "push error event failed: user_id=%d, error=%v", c.UserId, pushErr)
	}
}

// ActiveChat returns the peer id of the conversation the user currently
// has open, or zero.
func (c *Client) ActiveChat() int64 {
	return c.activeChat.Load()
}

// SetActiveChat records the open conversation peer; zero means none
func (c *Client) SetActiveChat(peerId int64) {
	c.activeChat.Store(peerId)
}

// SessionReplaced notifies a displaced connection and closes it. Sent
// when the same user opens a newer connection.
func (c *Client) SessionReplaced() error {
	if err := c.Push(EvtSessionReplaced, nil); err != nil {
		log.CtxDebug(c.ctx, "session replaced push failed: user_id=%d, error=%v", c.UserId, err)
	}
	return c.Close()
}

// Close closes the client connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.closed.Store(true)
	c.cancel()
	return c.conn.Close()
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
