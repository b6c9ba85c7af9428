package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"bazaar/internal/relay"
	"bazaar/internal/service"
)

// WSHandler upgrades authenticated connections into relay clients.
type WSHandler struct {
	hub         *relay.Hub
	chatService service.ChatService
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *relay.Hub, chatService service.ChatService) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve godoc
// @Summary Upgrade to a websocket carrying join/message events
// @Tags chats
// @Success 101
// @Failure 401 {object} errors.ErrorResponse
// @Router /ws [get]
func (h *WSHandler) Serve(c echo.Context) error {
	sess, _ := CurrentSession(c)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "upgrade failed")
	}

	client := relay.NewClient(h.hub, conn, sess.UserID, h.chatService.AppendMessage)
	client.Start()
	return nil
}
