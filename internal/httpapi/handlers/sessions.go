package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chatflow/internal/chat"
)

type newChatReq struct {
	Title string `json:"title"`
}

func (h *Handler) NewChat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req newChatReq
	_ = c.ShouldBindJSON(&req) // allow empty body

	sess, err := h.Store.Create(uid, strings.TrimSpace(req.Title))
	if err != nil {
		log.Printf("[NewChat] create failed user=%s: %v", uid, err)
		fail(c, http.StatusInternalServerError, "Failed to create new chat")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "New chat created successfully",
		"chat":    sess,
	})
}

func (h *Handler) ListChats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	summaries, currentID, err := h.Store.ListSummaries(uid)
	if err != nil {
		log.Printf("[ListChats] user=%s: %v", uid, err)
		fail(c, http.StatusInternalServerError, "Failed to get chats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats":           summaries,
		"current_chat_id": currentID,
	})
}

func (h *Handler) GetChat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	sess, err := h.Store.Get(uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, "Chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get chat")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": sess})
}

func (h *Handler) SwitchChat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	sess, err := h.Store.Switch(uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, "Chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to switch chat")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Chat switched successfully",
		"chat":    sess,
	})
}

type renameReq struct {
	Title string `json:"title"`
}

func (h *Handler) RenameChat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		fail(c, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	if !h.Store.Rename(uid, c.Param("id"), title) {
		fail(c, http.StatusNotFound, "Chat not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat renamed successfully"})
}

func (h *Handler) DeleteChat(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if !h.Store.Delete(uid, c.Param("id")) {
		fail(c, http.StatusNotFound, "Chat not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}

func (h *Handler) SearchChats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	matches, err := h.Store.Search(uid, c.Query("q"))
	if err != nil {
		log.Printf("[SearchChats] user=%s: %v", uid, err)
		fail(c, http.StatusInternalServerError, "Failed to search chats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": matches})
}
