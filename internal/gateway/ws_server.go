package gateway

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/ademaro/linka/internal/config"
	"github.com/ademaro/linka/pkg/jwt"
)

// WsServer is the WebSocket server. It owns the connection registry and
// the single event loop that serializes register/unregister, and wires
// the relay, receipt, presence and call components over it.
type WsServer struct {
	upgrader       *websocket.Upgrader
	cfg            *config.Config
	registry       *Registry
	unread         *UnreadStore
	presence       *PresenceTracker
	relay          *MessageRelay
	receipts       *ReadReceipts
	calls          *CallRelay
	users          UserDirectory
	registerChan   chan *Client
	unregisterChan chan *Client
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// NewWsServer creates a new WebSocket server
func NewWsServer(cfg *config.Config, rdb *redis.Client, msgStore MessageStore, presenceStore PresenceStore, users UserDirectory) *WsServer {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	registry := NewRegistry()
	unread := NewUnreadStore()

	server := &WsServer{
		upgrader:       upgrader,
		cfg:            cfg,
		registry:       registry,
		unread:         unread,
		presence:       NewPresenceTracker(registry, presenceStore, rdb),
		relay:          NewMessageRelay(msgStore, registry, unread),
		receipts:       NewReadReceipts(msgStore, registry, unread),
		calls:          NewCallRelay(registry),
		users:          users,
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}

	return server
}

// Run starts the WebSocket server event loop
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)
}

// Registry exposes the connection registry
func (s *WsServer) Registry() *Registry {
	return s.registry
}

// Presence exposes the presence tracker
func (s *WsServer) Presence() *PresenceTracker {
	return s.presence
}

// Receipts exposes the read-receipt protocol for the REST surface
func (s *WsServer) Receipts() *ReadReceipts {
	return s.receipts
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// registerClient registers a client. One connection per user: an
// existing connection is told sessionReplaced and closed, and the
// newcomer takes over without a presence flap.
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	prev := s.registry.Register(client)
	s.onlineConnNum.Add(1)

	if prev != nil {
		log.CtxInfo(ctx, "session replaced: user_id=%d, old_conn_id=%s, new_conn_id=%s",
			client.UserId, prev.ConnId, client.ConnId)
		prev.SessionReplaced()
	}

	s.presence.HandleConnect(ctx, client)

	// Seed the fresh session with authoritative counters
	if err := s.receipts.ReconcileUnread(ctx, client); err != nil {
		log.CtxWarn(ctx, "unread reconcile failed: user_id=%d, error=%v", client.UserId, err)
	}

	log.CtxInfo(ctx, "client registered: user_id=%d, conn_id=%s, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, s.registry.Count(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client. Only the currently registered
// connection takes the user offline; a displaced one just goes away.
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	removed := s.registry.Unregister(client)
	s.onlineConnNum.Add(-1)

	if removed {
		s.unread.Drop(client.UserId)
		s.presence.HandleDisconnect(ctx, client)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%d, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, removed, s.registry.Count(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%d", client.UserId)
	}
}

// HandleConnection handles a new WebSocket connection over net/http
func (s *WsServer) HandleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	// Check connection limit
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get(QueryToken)
	sendIdStr := r.URL.Query().Get(QuerySendId)

	if token == "" || sendIdStr == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	sendId, err := strconv.ParseInt(sendIdStr, 10, 64)
	if err != nil || sendId <= 0 {
		http.Error(w, "invalid send_id", http.StatusBadRequest)
		return
	}

	user, err := s.authenticate(ctx, token, sendId)
	if err != nil {
		log.CtxDebug(ctx, "handshake auth failed: send_id=%d, error=%v", sendId, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize,
		s.cfg.WebSocket.WriteChannelSize, PongWait, PingPeriod)
	client := NewClient(wsConn, user.UserId, user.DisplayName, token, connId, s)

	s.registerChan <- client
	client.Start()
}

// handshakeIdentity is the resolved identity for a new connection
type handshakeIdentity struct {
	UserId      int64
	DisplayName string
}

// authenticate validates the handshake token and resolves the user. A
// token for a user that no longer exists is refused; stale credentials
// must not create ghost sessions.
func (s *WsServer) authenticate(ctx context.Context, token string, sendId int64) (*handshakeIdentity, error) {
	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, sendId)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetById(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}
	return &handshakeIdentity{UserId: user.Id, DisplayName: name}, nil
}

// GetOnlineUserCount returns online user count
func (s *WsServer) GetOnlineUserCount() int {
	return s.registry.Count()
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}
