package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ritmo-backend/internal/models"
	"ritmo-backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
	auth  *services.AuthService
}

func NewUserHandler(users *services.UserService, auth *services.AuthService) *UserHandler {
	return &UserHandler{
		users: users,
		auth:  auth,
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user.Profile(services.RequiredXP(user.Level)),
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("userId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user updated",
		"user":    user.Profile(services.RequiredXP(user.Level)),
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if _, err := h.users.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *UserHandler) UpdateProgress(c *gin.Context) {
	var req models.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, progress, err := h.users.UpdateProgress(c.Request.Context(), c.Param("userId"), *req.XPGained)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "progress updated",
		"user": gin.H{
			"username":   user.Username,
			"level":      progress.Level,
			"experience": progress.Experience,
			"requiredXp": progress.RequiredXP,
		},
	})
}
