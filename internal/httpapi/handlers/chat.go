package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chatflow/internal/ai"
	"github.com/suPer8Hu/chatflow/internal/chat"
)

type chatReq struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

func (h *Handler) Chat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.ChatSvc.Chat(c.Request.Context(), uid, req.Model, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, "Message cannot be empty")
		case errors.Is(err, ai.ErrNotConfigured):
			fail(c, http.StatusInternalServerError, "AI backend not initialized. Please check your API key.")
		default:
			// the cause (possibly credential-related) is logged, never echoed
			log.Printf("[Chat] turn failed user=%s: %v", uid, err)
			fail(c, http.StatusInternalServerError, "An error occurred while processing your message.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   res.Response,
		"model_used": res.ModelUsed,
		"chat_id":    res.ChatID,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"backend_initialized": h.ChatSvc.Initialized(),
	})
}

func (h *Handler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.Cfg.Models})
}
