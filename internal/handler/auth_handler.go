package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bazaar/internal/errors"
	"bazaar/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	ID     string `json:"id" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// SessionResponse represents the session state returned to clients.
type SessionResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// Login godoc
// @Summary Log in with id and secret
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, sess, err := h.authService.Login(c.Request().Context(), req.ID, req.Secret)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, SessionResponse{OK: true, ID: sess.UserID, IsAdmin: sess.IsAdmin})
}

// Logout godoc
// @Summary Log out and invalidate the session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		h.authService.Logout(c.Request().Context(), cookie.Value)
	}
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Session godoc
// @Summary Report the current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, ok := CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusOK, SessionResponse{OK: false})
	}
	return c.JSON(http.StatusOK, SessionResponse{OK: true, ID: sess.UserID, IsAdmin: sess.IsAdmin})
}
