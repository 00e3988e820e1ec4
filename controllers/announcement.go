package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/models"
	"association-portal-api/utils"
)

type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// GetAnnouncements lists announcements, newest first.
func GetAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := config.DB.Where("delete_at IS NULL").
		Order("create_at DESC").
		Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

// GetAnnouncement returns one announcement.
func GetAnnouncement(c *gin.Context) {
	announcementID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement id"})
		return
	}

	var announcement models.Announcement
	if err := config.DB.Where("announcement_id = ? AND delete_at IS NULL", announcementID).
		First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

// CreateAnnouncement publishes an announcement (admin only via route).
func CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	announcement := models.Announcement{
		Title:     utils.SanitizeInput(req.Title),
		Content:   req.Content,
		CreatedBy: c.GetInt("userID"),
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"announcement": announcement})
}

// UpdateAnnouncement edits an announcement (admin only via route).
func UpdateAnnouncement(c *gin.Context) {
	announcementID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement id"})
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var announcement models.Announcement
	if err := config.DB.Where("announcement_id = ? AND delete_at IS NULL", announcementID).
		First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	now := time.Now()
	announcement.Title = utils.SanitizeInput(req.Title)
	announcement.Content = req.Content
	announcement.UpdateAt = &now

	if err := config.DB.Save(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

// DeleteAnnouncement soft deletes an announcement (admin only via route).
func DeleteAnnouncement(c *gin.Context) {
	announcementID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement id"})
		return
	}

	var announcement models.Announcement
	if err := config.DB.Where("announcement_id = ? AND delete_at IS NULL", announcementID).
		First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	now := time.Now()
	announcement.DeleteAt = &now
	if err := config.DB.Save(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
