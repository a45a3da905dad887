package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/ademaro/linka/internal/gateway"
	"github.com/ademaro/linka/internal/middleware"
	"github.com/ademaro/linka/internal/service"
	"github.com/ademaro/linka/pkg/errcode"
	"github.com/ademaro/linka/pkg/response"
)

// MessageHandler handles message requests. It is the external REST
// boundary: history is read-only, and the mark-read path goes through
// the gateway so live sessions see the same receipts as WebSocket
// clients.
type MessageHandler struct {
	msgService *service.MessageService
	wsServer   *gateway.WsServer
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService *service.MessageService, wsServer *gateway.WsServer) *MessageHandler {
	return &MessageHandler{
		msgService: msgService,
		wsServer:   wsServer,
	}
}

// History returns one page of the conversation with peer_id. Fetching
// history never flips read state; clients mark read explicitly.
func (h *MessageHandler) History(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	peerId, err := strconv.ParseInt(c.Query("peer_id"), 10, 64)
	if err != nil || peerId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	pageData, err := h.msgService.History(ctx, userId, peerId, page, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pageData)
}

// Delete removes a message; only the author may delete
func (h *MessageHandler) Delete(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	msgId, err := strconv.ParseInt(c.Param("message_id"), 10, 64)
	if err != nil || msgId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.msgService.Delete(ctx, msgId, userId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// MarkReadRequest is the POST /msg/read body
type MarkReadRequest struct {
	SenderId int64 `json:"sender_id"`
	Before   int64 `json:"before,omitempty"`
}

// MarkRead marks messages from sender_id as read. Goes through the
// gateway receipts so a connected sender gets messagesRead immediately.
func (h *MessageHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.SenderId <= 0 || req.SenderId == userId {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	affected, err := h.wsServer.Receipts().MarkReadFor(ctx, userId, req.SenderId, req.Before)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]int64{"marked": affected})
}

// UnreadCounts returns the caller's per-sender unread counts from the
// durable store.
func (h *MessageHandler) UnreadCounts(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	counts, err := h.msgService.GroupedUnreadCounts(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, counts)
}
