package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	profile, err := h.Store.Profile(uid)
	if err != nil {
		log.Printf("[GetProfile] user=%s: %v", uid, err)
		fail(c, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type updateProfileReq struct {
	Name        *string        `json:"name"`
	Preferences map[string]any `json:"preferences"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.Store.UpdateProfile(uid, req.Name, req.Preferences)
	if err != nil {
		log.Printf("[UpdateProfile] user=%s: %v", uid, err)
		fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}
