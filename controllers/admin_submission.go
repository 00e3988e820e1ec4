package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"association-portal-api/models"
)

type ReviewSubmissionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// ReviewSubmission is the admin review endpoint. The wire contract:
// 200 {success, submission} on a completed review, 400 for missing fields or
// a submission that already left the review queue, 401 handled by the auth
// middleware, 403 for non-admin callers.
func ReviewSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var req ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: submissionId and status"})
		return
	}

	adminID := c.GetInt("userID")

	submission, err := submissionService().ReviewSubmission(adminID, submissionID, req.Status, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission " + req.Status + " successfully",
		"submission": submission,
	})
}

type AddCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AddReviewComment appends an admin note to a submission in any status.
func AddReviewComment(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetInt("userID")

	comment, err := submissionService().AddReviewComment(adminID, submissionID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment,
	})
}

// GetAllSubmissions lists every submission with owner info for the admin
// review table.
func GetAllSubmissions(c *gin.Context) {
	submissions, err := submissionService().ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pending := 0
	for _, s := range submissions {
		if s.Status == models.SubmissionStatusPending {
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
		"pending":     pending,
	})
}
