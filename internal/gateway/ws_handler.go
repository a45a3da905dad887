package gateway

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
)

// HandleHertzConnection handles a WebSocket connection from Hertz using hertz-contrib/websocket
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	// Check connection limit
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}

	token := string(c.Query(QueryToken))
	sendIdStr := string(c.Query(QuerySendId))

	if token == "" || sendIdStr == "" {
		c.String(400, "missing required parameters")
		return
	}

	sendId, err := strconv.ParseInt(sendIdStr, 10, 64)
	if err != nil || sendId <= 0 {
		c.String(400, "invalid send_id")
		return
	}

	user, err := s.authenticate(ctx, token, sendId)
	if err != nil {
		log.CtxDebug(ctx, "handshake auth failed: send_id=%d, error=%v", sendId, err)
		c.String(401, "unauthorized")
		return
	}

	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize,
			s.cfg.WebSocket.WriteChannelSize, PongWait, PingPeriod)
		client := NewClient(wsConn, user.UserId, user.DisplayName, token, connId, s)

		s.registerChan <- client

		// Blocking: the upgrade callback owns the connection lifetime
		client.readLoop()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}
