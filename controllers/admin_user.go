package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/models"
)

// GetUsers lists accounts for the admin panel.
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Role").
		Where("delete_at IS NULL").
		Order("create_at DESC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

type UpdateRoleRequest struct {
	RoleID int `json:"role_id" binding:"required"`
}

// UpdateUserRole mutates an account's role. Role changes are admin-only and
// the only profile mutation admins perform on other users.
func UpdateUserRole(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RoleID != models.RoleStudent && req.RoleID != models.RoleMember && req.RoleID != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	user.RoleID = req.RoleID
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"user":    user,
	})
}
