package router

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"

	"github.com/ademaro/linka/internal/config"
	"github.com/ademaro/linka/internal/gateway"
	"github.com/ademaro/linka/internal/handler"
	"github.com/ademaro/linka/internal/middleware"
	"github.com/ademaro/linka/internal/service"
)

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer, authService *service.AuthService) {
	cfg := config.GlobalConfig

	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]interface{}{
			"status":       "ok",
			"online_users": wsServer.GetOnlineUserCount(),
		})
	})

	// Auth routes
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/logout", middleware.JWTAuth(authService), handlers.Auth.Logout)
	}

	// User routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth(authService))
	{
		userGroup.GET("/info", handlers.User.GetUserInfo)
		userGroup.GET("/info/:user_id", handlers.User.GetUserInfoById)
		userGroup.GET("/list", handlers.User.ListUsers)
		userGroup.GET("/online", handlers.User.GetOnlineUsers)
		userGroup.PUT("/update", handlers.User.UpdateUserInfo)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/msg", middleware.JWTAuth(authService))
	{
		msgGroup.GET("/history", handlers.Message.History)
		msgGroup.GET("/unread", handlers.Message.UnreadCounts)
		msgGroup.POST("/read", handlers.Message.MarkRead)
		msgGroup.DELETE("/:message_id", handlers.Message.Delete)
	}

	// WebSocket route using hertz-contrib/websocket with proper origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// If no origin header, allow (same-origin request or non-browser client)
	if origin == "" {
		return true
	}

	// If no allowed origins configured, reject all cross-origin requests in production
	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// Wildcard - allow all (only use in development!)
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Message *handler.MessageHandler
}
