package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chatflow/internal/chat"
	"github.com/suPer8Hu/chatflow/internal/config"
	"github.com/suPer8Hu/chatflow/internal/httpapi/middleware"
)

type Handler struct {
	Cfg     config.Config
	Store   *chat.Store
	ChatSvc *chat.Service
}

func NewHandler(cfg config.Config, store *chat.Store, svc *chat.Service) *Handler {
	return &Handler{Cfg: cfg, Store: store, ChatSvc: svc}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func userID(c *gin.Context) (string, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusInternalServerError, "Missing user identity")
	}
	return uid, ok
}
