package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bazaar/docs"
	"bazaar/internal/config"
	"bazaar/internal/handler"
	"bazaar/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions session.Store,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	articleHandler *handler.ArticleHandler,
	chatHandler *handler.ChatHandler,
	profileHandler *handler.ProfileHandler,
	wsHandler *handler.WSHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(handler.SessionMiddleware(sessions))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/session", authHandler.Session)
	api.GET("/articles", articleHandler.ListArticles)
	api.GET("/profile/:id", profileHandler.Get)

	// Authenticated routes
	authed := api.Group("", handler.RequireAuth)
	authed.POST("/articles", articleHandler.CreateArticle)
	authed.PUT("/articles/:id", articleHandler.UpdateArticle)
	authed.DELETE("/articles/:id", articleHandler.DeleteArticle)

	authed.GET("/chats", chatHandler.ListRooms)
	authed.POST("/chats", chatHandler.CreateRoom)
	authed.GET("/chats/:id", chatHandler.GetRoom)
	authed.POST("/chats/:id/members", chatHandler.AddMembers)
	authed.PUT("/chats/:id/name", chatHandler.Rename)
	authed.POST("/messages", chatHandler.PostMessage)

	authed.POST("/profile", profileHandler.Upload)

	// Admin routes
	admin := api.Group("/users", handler.RequireAdmin)
	admin.GET("", userHandler.ListUsers)
	admin.POST("", userHandler.CreateUser)
	admin.PUT("/:id", userHandler.UpdateUser)
	admin.DELETE("/:id", userHandler.DeleteUser)

	// Live connection
	e.GET("/ws", wsHandler.Serve, handler.RequireAuth)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
