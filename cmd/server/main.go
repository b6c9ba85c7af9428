package main

import (
	"log"
	"net/http"

	_ "bazaar/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/handler"
	"bazaar/internal/relay"
	"bazaar/internal/repository"
	"bazaar/internal/router"
	"bazaar/internal/service"
	"bazaar/internal/session"
	"bazaar/internal/store"
)

// @title Bazaar API
// @version 1.0
// @description Marketplace and group chat service with session authentication and live message delivery.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(st)
	articleRepo := repository.NewArticleRepository(st)
	chatRepo := repository.NewChatRepository(st)
	profileRepo := repository.NewProfileRepository(st)

	// Initialize session store
	sessions := session.NewMemoryStore(cfg.AdminIDs, cfg.SessionMaxAge)
	if len(cfg.AdminIDs) == 0 {
		log.Println("ADMIN_IDS empty: no session will carry the administrator role")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions)
	userService := service.NewUserService(userRepo)
	articleService := service.NewArticleService(articleRepo, cacheClient)
	chatService := service.NewChatService(chatRepo, userRepo)

	// Initialize relay
	hub := relay.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	articleHandler := handler.NewArticleHandler(articleService, cfg.UploadsDir)
	chatHandler := handler.NewChatHandler(chatService, hub)
	profileHandler := handler.NewProfileHandler(profileRepo, cfg.UploadsDir)
	wsHandler := handler.NewWSHandler(hub, chatService)

	// Register routes
	router.Register(
		e,
		cfg,
		sessions,
		authHandler,
		userHandler,
		articleHandler,
		chatHandler,
		profileHandler,
		wsHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
