package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"association-portal-api/config"
	"association-portal-api/controllers"
	"association-portal-api/models"
	"association-portal-api/routes"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.SubmissionComment{},
		&models.SubmissionStatusHistory{},
		&models.Notification{},
		&models.Event{},
		&models.EventRegistration{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	config.DB = db

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.SetupRoutes(router)
	return router
}

func seedUser(t *testing.T, email string, roleID int) (*models.User, string) {
	t.Helper()
	now := time.Now()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "x",
		RoleID:   roleID,
		CreateAt: &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := controllers.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &user, token
}

func seedSubmission(t *testing.T, userID int, status string) *models.Submission {
	t.Helper()
	submission := models.Submission{
		Title:       "X",
		Content:     "Y",
		Status:      status,
		UserID:      userID,
		SubmittedAt: time.Now(),
	}
	if err := config.DB.Create(&submission).Error; err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}
	return &submission
}

func doReview(router *gin.Engine, token, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewEndpointRequiresToken(t *testing.T) {
	router := setupTestRouter(t)

	w := doReview(router, "", "/api/v1/admin/submissions/1/review", gin.H{"status": "approved"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReviewEndpointRejectsNonAdmin(t *testing.T) {
	router := setupTestRouter(t)
	owner, _ := seedUser(t, "owner@example.com", models.RoleMember)
	_, memberToken := seedUser(t, "member@example.com", models.RoleMember)
	submission := seedSubmission(t, owner.UserID, models.SubmissionStatusPending)

	w := doReview(router, memberToken,
		"/api/v1/admin/submissions/"+itoa(submission.SubmissionID)+"/review",
		gin.H{"status": "approved"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReviewEndpointRequiresStatus(t *testing.T) {
	router := setupTestRouter(t)
	owner, _ := seedUser(t, "owner@example.com", models.RoleMember)
	_, adminToken := seedUser(t, "admin@example.com", models.RoleAdmin)
	submission := seedSubmission(t, owner.UserID, models.SubmissionStatusPending)

	w := doReview(router, adminToken,
		"/api/v1/admin/submissions/"+itoa(submission.SubmissionID)+"/review",
		gin.H{"comment": "missing status"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReviewEndpointApproves(t *testing.T) {
	router := setupTestRouter(t)
	owner, _ := seedUser(t, "owner@example.com", models.RoleMember)
	_, adminToken := seedUser(t, "admin@example.com", models.RoleAdmin)
	submission := seedSubmission(t, owner.UserID, models.SubmissionStatusPending)

	w := doReview(router, adminToken,
		"/api/v1/admin/submissions/"+itoa(submission.SubmissionID)+"/review",
		gin.H{"status": "approved", "comment": "well done"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success    bool              `json:"success"`
		Submission models.Submission `json:"submission"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Submission.Status != models.SubmissionStatusApproved {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.Submission.User == nil || resp.Submission.User.Email != owner.Email {
		t.Fatalf("expected the owner attached: %s", w.Body.String())
	}
}

func TestReviewEndpointRejectsTerminalTarget(t *testing.T) {
	router := setupTestRouter(t)
	owner, _ := seedUser(t, "owner@example.com", models.RoleMember)
	_, adminToken := seedUser(t, "admin@example.com", models.RoleAdmin)
	submission := seedSubmission(t, owner.UserID, models.SubmissionStatusApproved)

	w := doReview(router, adminToken,
		"/api/v1/admin/submissions/"+itoa(submission.SubmissionID)+"/review",
		gin.H{"status": "rejected"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendSMSEndpointValidatesPhone(t *testing.T) {
	router := setupTestRouter(t)
	_, token := seedUser(t, "member@example.com", models.RoleMember)

	payload, _ := json.Marshal(gin.H{"phone": "09121234567", "message": "hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/send-sms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
