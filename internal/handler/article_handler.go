package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/service"
)

// ArticleHandler handles marketplace listing endpoints.
type ArticleHandler struct {
	articleService service.ArticleService
	uploadsDir     string
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articleService service.ArticleService, uploadsDir string) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, uploadsDir: uploadsDir}
}

// ArticleRequest represents article create/update fields. Binds from JSON or
// multipart form; an optional image file rides alongside the form fields.
type ArticleRequest struct {
	Name        string `json:"name" form:"name"`
	Price       string `json:"price" form:"price"`
	Description string `json:"description" form:"description"`
	Version     string `json:"version" form:"version"`
	Edition     string `json:"edition" form:"edition"`
}

// ListArticles godoc
// @Summary List all articles
// @Tags articles
// @Produce json
// @Success 200 {array} model.Article
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	articles, err := h.articleService.ListArticles(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}

// CreateArticle godoc
// @Summary Create an article owned by the caller
// @Tags articles
// @Accept json
// @Produce json
// @Param request body ArticleRequest true "Article payload"
// @Success 201 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	image, err := h.storeImage(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	article, err := h.articleService.CreateArticle(c.Request().Context(), sess, &model.Article{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Version:     req.Version,
		Edition:     req.Edition,
		Image:       image,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, article)
}

// UpdateArticle godoc
// @Summary Update an article (owner or admin)
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param request body ArticleRequest true "Fields to replace"
// @Success 200 {object} model.Article
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	sess, _ := CurrentSession(c)

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	image, err := h.storeImage(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	article, err := h.articleService.UpdateArticle(c.Request().Context(), sess, c.Param("id"), service.ArticleUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Version:     req.Version,
		Edition:     req.Edition,
		Image:       image,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary Delete an article (owner or admin)
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	sess, _ := CurrentSession(c)

	if err := h.articleService.DeleteArticle(c.Request().Context(), sess, c.Param("id")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// storeImage persists an optional multipart image and returns its generated
// filename, or "" when the request carries none.
func (h *ArticleHandler) storeImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return saveUpload(fh, h.uploadsDir)
}
