package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"association-portal-api/config"
	"association-portal-api/controllers"
	"association-portal-api/models"
)

func postJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(router, http.MethodPost, "/api/v1/register", "", gin.H{
		"name":     "New Student",
		"email":    "student@example.com",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	config.DB.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no account created, got %d rows", count)
	}
}

func TestChangePasswordRejectsWeakPassword(t *testing.T) {
	router := setupTestRouter(t)

	hash, err := controllers.HashPassword("oldpassword1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now()
	user := models.User{
		Name:     "Test User",
		Email:    "member@example.com",
		Password: hash,
		RoleID:   models.RoleMember,
		CreateAt: &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := controllers.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	w := postJSON(router, http.MethodPut, "/api/v1/change-password", token, gin.H{
		"current_password": "oldpassword1",
		"new_password":     "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.User
	if err := config.DB.First(&reloaded, "user_id = ?", user.UserID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Password != hash {
		t.Fatal("password hash must not change on a rejected update")
	}

	w = postJSON(router, http.MethodPut, "/api/v1/change-password", token, gin.H{
		"current_password": "oldpassword1",
		"new_password":     "newpassword1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
