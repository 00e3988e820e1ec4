package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"association-portal-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Submission{},
		&models.SubmissionComment{},
		&models.SubmissionFile{},
		&models.SubmissionStatusHistory{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Announcement{},
		&models.Comment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, roleID int, phone string) *models.User {
	t.Helper()
	userSeq++
	now := time.Now()
	user := models.User{
		Name:     fmt.Sprintf("User %d", userSeq),
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Password: "x",
		RoleID:   roleID,
		CreateAt: &now,
	}
	if phone != "" {
		user.PhoneNumber = &phone
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createEvent(t *testing.T, db *gorm.DB, capacity int, date time.Time) *models.Event {
	t.Helper()
	now := time.Now()
	event := models.Event{
		Title:    "Stargazing Night",
		Date:     date,
		Location: "Observatory",
		Capacity: capacity,
		CreateAt: &now,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return &event
}

// fakeGateway records dispatched messages and optionally fails.
type fakeGateway struct {
	sent []struct {
		Receptor string
		Message  string
	}
	err error
}

func (g *fakeGateway) Send(receptor, message string) error {
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, struct {
		Receptor string
		Message  string
	}{receptor, message})
	return nil
}

func newTestNotifier(db *gorm.DB, gateway SMSGateway) *Notifier {
	return &Notifier{db: db, gateway: gateway}
}
