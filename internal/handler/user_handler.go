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

// UserHandler handles user requests
type UserHandler struct {
	userService *service.UserService
	wsServer    *gateway.WsServer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, wsServer *gateway.WsServer) *UserHandler {
	return &UserHandler{
		userService: userService,
		wsServer:    wsServer,
	}
}

// GetUserInfo returns the caller's own profile
func (h *UserHandler) GetUserInfo(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	userInfo, err := h.userService.GetUserInfo(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// GetUserInfoById returns another user's profile
func (h *UserHandler) GetUserInfoById(ctx context.Context, c *app.RequestContext) {
	targetId, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || targetId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	userInfo, err := h.userService.GetUserInfo(ctx, targetId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// ListUsers returns every other user, for the contact sidebar
func (h *UserHandler) ListUsers(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	users, err := h.userService.ListUsers(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, users)
}

// UpdateUserInfo updates the caller's profile
func (h *UserHandler) UpdateUserInfo(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	var req service.UpdateUserRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	userInfo, err := h.userService.UpdateUserInfo(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// GetOnlineUsers returns the ids of currently connected users
func (h *UserHandler) GetOnlineUsers(ctx context.Context, c *app.RequestContext) {
	ids := h.wsServer.Registry().OnlineIds()
	response.Success(ctx, c, map[string]interface{}{
		"user_ids": ids,
		"count":    len(ids),
	})
}
