package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chatflow/internal/config"
	"github.com/suPer8Hu/chatflow/internal/httpapi/handlers"
	"github.com/suPer8Hu/chatflow/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/health", h.Health)

	identified := r.Group("/")
	identified.Use(middleware.Identity(cfg.JWTSecret))

	identified.POST("/chat", h.Chat)
	identified.GET("/models", h.Models)

	identified.POST("/chats/new", h.NewChat)
	identified.GET("/chats", h.ListChats)
	identified.GET("/chats/search", h.SearchChats)
	identified.GET("/chats/:id", h.GetChat)
	identified.POST("/chats/:id/switch", h.SwitchChat)
	identified.POST("/chats/:id/rename", h.RenameChat)
	identified.DELETE("/chats/:id", h.DeleteChat)

	identified.GET("/profile", h.GetProfile)
	identified.POST("/profile", h.UpdateProfile)

	return r
}
