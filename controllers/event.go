package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/models"
)

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity" binding:"required"`
}

// GetEvents lists events, newest first, each with its registration count.
func GetEvents(c *gin.Context) {
	var events []models.Event
	if err := config.DB.Where("delete_at IS NULL").
		Order("date DESC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	svc := registrationService()
	result := make([]gin.H, 0, len(events))
	for _, e := range events {
		count, err := svc.Count(e.EventID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		result = append(result, gin.H{
			"event":              e,
			"registration_count": count,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"events": result,
		"total":  len(result),
	})
}

// GetEvent returns one event with its count and whether the caller is
// registered.
func GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var event models.Event
	if err := config.DB.Where("event_id = ? AND delete_at IS NULL", eventID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	svc := registrationService()
	count, err := svc.Count(eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{
		"event":              event,
		"registration_count": count,
	}

	if userID := c.GetInt("userID"); userID != 0 {
		registered, err := svc.IsRegistered(eventID, userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response["is_registered"] = registered
	}

	c.JSON(http.StatusOK, response)
}

// CreateEvent creates an event (admin only via route).
func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be greater than zero"})
		return
	}

	now := time.Now()
	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		CreatedBy:   c.GetInt("userID"),
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// UpdateEvent edits an event (admin only via route).
func UpdateEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Capacity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be greater than zero"})
		return
	}

	var event models.Event
	if err := config.DB.Where("event_id = ? AND delete_at IS NULL", eventID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	// Capacity may never drop below the seats already taken.
	var registered int64
	if err := config.DB.Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID).
		Count(&registered).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	if int64(req.Capacity) < registered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity cannot be lower than the current registration count"})
		return
	}

	now := time.Now()
	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	event.Location = req.Location
	event.Capacity = req.Capacity
	event.UpdateAt = &now

	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent soft deletes an event (admin only via route).
func DeleteEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var event models.Event
	if err := config.DB.Where("event_id = ? AND delete_at IS NULL", eventID).
		First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	now := time.Now()
	event.DeleteAt = &now
	if err := config.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// ToggleRegistration registers the current user for an event, or cancels an
// existing registration.
func ToggleRegistration(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	userID := c.GetInt("userID")

	result, err := registrationService().Toggle(eventID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StreamRegistrationCount pushes registration-count updates for an event over
// SSE. The current count is sent immediately, then every change until the
// client disconnects.
func StreamRegistrationCount(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	svc := registrationService()
	count, err := svc.Count(eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	updates, cancel := registrationFeed().Subscribe(eventID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	send := func(n int64) {
		fmt.Fprintf(c.Writer, "event: count\ndata: %d\n\n", n)
		c.Writer.Flush()
	}
	send(count)

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case n := <-updates:
			send(n)
		}
	}
}
