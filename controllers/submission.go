package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/models"
)

type CreateSubmissionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateSubmission starts a new article submission for the current user.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")

	submission, err := submissionService().CreateSubmission(userID, req.Title, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// GetMySubmissions lists the current user's submissions.
func GetMySubmissions(c *gin.Context) {
	userID := c.GetInt("userID")

	submissions, err := submissionService().ListByUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission with comments and files. Owners see
// their own; admins see all.
func GetSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")

	submission, err := submissionService().Get(userID, roleID, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// UploadSubmissionFile attaches a file to a submission.
func UploadSubmissionFile(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	userID := c.GetInt("userID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	record, err := fileService().Upload(
		submissionID,
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file":    record,
	})
}

// GetSubmissionFiles lists a submission's attachments.
func GetSubmissionFiles(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return
	}

	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")

	// Ownership/role check rides on the submission load.
	if _, err := submissionService().Get(userID, roleID, submissionID); err != nil {
		respondServiceError(c, err)
		return
	}

	files, err := fileService().List(submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

// DownloadSubmissionFile streams an attachment back to the owner or an admin.
func DownloadSubmissionFile(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")

	var file models.SubmissionFile
	if err := config.DB.First(&file, "file_id = ?", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	// Owner of the submission or admin may download.
	var submission models.Submission
	if err := config.DB.Select("submission_id", "user_id").
		First(&submission, "submission_id = ?", file.SubmissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if roleID != models.RoleAdmin && submission.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	initDeps()
	blob, err := store.Open(file.FilePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer blob.Close()

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.DataFromReader(http.StatusOK, file.FileSize, file.FileType, blob, nil)
}

// DeleteSubmissionFile removes an attachment (owner or admin).
func DeleteSubmissionFile(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	userID := c.GetInt("userID")

	if err := fileService().Delete(fileID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
