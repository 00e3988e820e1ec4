package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/models"
)

type CreateCommentRequest struct {
	Content        string `json:"content" binding:"required"`
	AnnouncementID *int   `json:"announcement_id"`
	EventID        *int   `json:"event_id"`
}

// GetComments lists public comments for one announcement or event, oldest
// first, with each author's name.
func GetComments(c *gin.Context) {
	announcementID := strings.TrimSpace(c.Query("announcement_id"))
	eventID := strings.TrimSpace(c.Query("event_id"))

	if (announcementID == "") == (eventID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide exactly one of announcement_id or event_id"})
		return
	}

	query := config.DB.Preload("User")
	if announcementID != "" {
		id, err := strconv.Atoi(announcementID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement_id"})
			return
		}
		query = query.Where("announcement_id = ?", id)
	} else {
		id, err := strconv.Atoi(eventID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
			return
		}
		query = query.Where("event_id = ?", id)
	}

	var comments []models.Comment
	if err := query.Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// CreateComment appends a public comment to an announcement or an event.
func CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.AnnouncementID == nil) == (req.EventID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide exactly one of announcement_id or event_id"})
		return
	}

	// The target must exist; comments never point at deleted content.
	if req.AnnouncementID != nil {
		var target models.Announcement
		if err := config.DB.Where("announcement_id = ? AND delete_at IS NULL", *req.AnnouncementID).
			First(&target).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
	} else {
		var target models.Event
		if err := config.DB.Where("event_id = ? AND delete_at IS NULL", *req.EventID).
			First(&target).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
	}

	comment := models.Comment{
		Content:        strings.TrimSpace(req.Content),
		UserID:         c.GetInt("userID"),
		AnnouncementID: req.AnnouncementID,
		EventID:        req.EventID,
		CreatedAt:      time.Now(),
	}

	if comment.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
