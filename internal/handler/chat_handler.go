package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/relay"
	"bazaar/internal/service"
)

// ChatHandler handles chat room endpoints, including the HTTP fallback
// message path that must mirror the websocket path exactly.
type ChatHandler struct {
	chatService service.ChatService
	hub         *relay.Hub
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService, hub *relay.Hub) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub}
}

// CreateRoomRequest represents a room creation request.
type CreateRoomRequest struct {
	MemberIDs   []string `json:"memberIds" validate:"required,min=1"`
	DisplayName string   `json:"displayName"`
}

// AddMembersRequest represents a membership grow request.
type AddMembersRequest struct {
	MemberIDs []string `json:"memberIds" validate:"required,min=1"`
}

// RenameRequest represents a room rename request.
type RenameRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
}

// PostMessageRequest is the HTTP fallback message payload. Any timestamp a
// client smuggles in is discarded; the service assigns the authoritative one.
type PostMessageRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Body   string `json:"body" validate:"required"`
}

// RoomResponse wraps a room with the original ok envelope.
type RoomResponse struct {
	OK   bool        `json:"ok"`
	Room *model.Room `json:"room"`
}

// ListRooms godoc
// @Summary List the caller's rooms
// @Tags chats
// @Produce json
// @Success 200 {object} model.ChatCollection
// @Failure 401 {object} errors.ErrorResponse
// @Router /chats [get]
func (h *ChatHandler) ListRooms(c echo.Context) error {
	sess, _ := CurrentSession(c)

	rooms, err := h.chatService.ListRooms(c.Request().Context(), sess.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return c.JSON(http.StatusOK, model.ChatCollection{Chats: rooms})
}

// GetRoom godoc
// @Summary Fetch one room the caller belongs to
// @Tags chats
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} RoomResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id} [get]
func (h *ChatHandler) GetRoom(c echo.Context) error {
	sess, _ := CurrentSession(c)

	room, err := h.chatService.GetRoom(c.Request().Context(), sess.UserID, c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, RoomResponse{OK: true, Room: room})
}

// CreateRoom godoc
// @Summary Create a room
// @Tags chats
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "Members and optional display name"
// @Success 201 {object} RoomResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, err := h.chatService.CreateRoom(c.Request().Context(), sess.UserID, req.MemberIDs, req.DisplayName)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, RoomResponse{OK: true, Room: room})
}

// AddMembers godoc
// @Summary Add members to a room (idempotent)
// @Tags chats
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body AddMembersRequest true "Member ids to add"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id}/members [post]
func (h *ChatHandler) AddMembers(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req AddMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, added, err := h.chatService.AddMembers(c.Request().Context(), sess.UserID, c.Param("id"), req.MemberIDs)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":    true,
		"room":  room,
		"added": added,
	})
}

// Rename godoc
// @Summary Rename a room
// @Tags chats
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body RenameRequest true "New display name"
// @Success 200 {object} RoomResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chats/{id}/name [put]
func (h *ChatHandler) Rename(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req RenameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, err := h.chatService.Rename(c.Request().Context(), sess.UserID, c.Param("id"), req.DisplayName)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, RoomResponse{OK: true, Room: room})
}

// PostMessage godoc
// @Summary Append a message over HTTP (fallback for the websocket path)
// @Tags chats
// @Accept json
// @Produce json
// @Param request body PostMessageRequest true "Room and body"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *ChatHandler) PostMessage(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.chatService.AppendMessage(c.Request().Context(), sess.UserID, req.RoomID, req.Body)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	// live subscribers hear about fallback messages too
	h.hub.Broadcast(req.RoomID, msg)

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"ok":      true,
		"message": msg,
	})
}
