package models

import "time"

type Event struct {
	EventID     int        `gorm:"primaryKey;column:event_id" json:"event_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Date        time.Time  `gorm:"column:date" json:"date"`
	Location    string     `gorm:"column:location" json:"location"`
	Capacity    int        `gorm:"column:capacity" json:"capacity"`
	CreatedBy   int        `gorm:"column:created_by" json:"created_by"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// EventRegistration pairs a user with an event. The composite unique index is
// what makes the at-most-once pairing hard rather than advisory.
type EventRegistration struct {
	RegistrationID int       `gorm:"primaryKey;column:registration_id" json:"registration_id"`
	EventID        int       `gorm:"column:event_id;uniqueIndex:uq_event_user" json:"event_id"`
	UserID         int       `gorm:"column:user_id;uniqueIndex:uq_event_user" json:"user_id"`
	RegisteredAt   time.Time `gorm:"column:registered_at" json:"registered_at"`
}

// TableName overrides
func (Event) TableName() string {
	return "events"
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}
