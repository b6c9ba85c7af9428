package handler

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"bazaar/internal/errors"
	"bazaar/internal/repository"
)

// ProfileHandler handles profile image upload and retrieval.
type ProfileHandler struct {
	profiles   repository.ProfileRepository
	uploadsDir string
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles repository.ProfileRepository, uploadsDir string) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploadsDir: uploadsDir}
}

// Upload godoc
// @Summary Upload the caller's profile image
// @Tags profiles
// @Accept mpfd
// @Produce json
// @Param photo formData file true "Profile image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /profile [post]
func (h *ProfileHandler) Upload(c echo.Context) error {
	sess, _ := CurrentSession(c)

	fh, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "no file",
			Code:  "INVALID_INPUT",
		})
	}

	name, err := saveUpload(fh, h.uploadsDir)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err := h.profiles.Set(c.Request().Context(), sess.UserID, name); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "file": name})
}

// Get godoc
// @Summary Fetch a user's profile image
// @Tags profiles
// @Produce png
// @Param id path string true "User ID"
// @Success 200
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	name, err := h.profiles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	// name is always a generated filename, never a client path
	return c.File(filepath.Join(h.uploadsDir, name))
}
