package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"minecontrol-backend/internal/auth"
	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/mw"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   *int64 `json:"role_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var user model.User
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Role").
		Where("username = ?", strings.TrimSpace(req.Username)).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}
	if user.Status != model.UserStatusActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "user is inactive, contact an administrator"})
		return
	}

	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}
	p := auth.Principal{UserID: user.ID, Username: user.Username, Role: role}
	token, err := h.issuer.Issue(p)
	if err != nil {
		respondError(c, err)
		return
	}

	mw.SetPrincipal(c, p)
	h.record(c, "auth", "login", user.ID, "login "+user.Username)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user": loginUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			RoleID:   user.RoleID,
			Role:     role,
			Status:   user.Status,
		},
	})
}
