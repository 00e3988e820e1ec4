package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"association-portal-api/models"
)

// ToggleResult reports the state after a toggle: whether the user ended up
// registered and the event's registration count as the database sees it.
type ToggleResult struct {
	Registered bool  `json:"registered"`
	Count      int64 `json:"count"`
}

// RegistrationService admits users into events. Capacity and the
// at-most-one-pairing rule are enforced inside a transaction holding the
// event row, so two concurrent registrations cannot both pass the count
// check.
type RegistrationService struct {
	db   *gorm.DB
	feed *RegistrationFeed
	now  func() time.Time
}

func NewRegistrationService(db *gorm.DB, feed *RegistrationFeed) *RegistrationService {
	return &RegistrationService{db: db, feed: feed, now: time.Now}
}

// Toggle registers the user for the event, or cancels an existing
// registration. Cancellation is always permitted, including for past events.
// A new registration requires free capacity and an event date in the future.
func (s *RegistrationService) Toggle(eventID, userID int) (*ToggleResult, error) {
	var result ToggleResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := lockForUpdate(tx).
			Where("event_id = ? AND delete_at IS NULL", eventID).
			First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return &CollaboratorError{Op: "load event", Err: err}
		}

		var existing models.EventRegistration
		err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
		switch {
		case err == nil:
			// Cancellation.
			if err := tx.Delete(&existing).Error; err != nil {
				return &CollaboratorError{Op: "delete registration", Err: err}
			}
			result.Registered = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if event.Date.Before(s.now()) {
				return &AdmissionDeniedError{
					Code:   ReasonEventClosed,
					Reason: "the event date has passed",
				}
			}

			var count int64
			if err := tx.Model(&models.EventRegistration{}).
				Where("event_id = ?", eventID).
				Count(&count).Error; err != nil {
				return &CollaboratorError{Op: "count registrations", Err: err}
			}
			if count >= int64(event.Capacity) {
				return &AdmissionDeniedError{
					Code:   ReasonCapacityExceeded,
					Reason: "the event is at full capacity",
				}
			}

			registration := models.EventRegistration{
				EventID:      eventID,
				UserID:       userID,
				RegisteredAt: s.now(),
			}
			if err := tx.Create(&registration).Error; err != nil {
				return &CollaboratorError{Op: "create registration", Err: err}
			}
			result.Registered = true
		default:
			return &CollaboratorError{Op: "load registration", Err: err}
		}

		// Report the server count, not a locally adjusted one.
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ?", eventID).
			Count(&result.Count).Error; err != nil {
			return &CollaboratorError{Op: "count registrations", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(eventID, result.Count)
	}
	return &result, nil
}

// Count returns the live registration count for an event.
func (s *RegistrationService) Count(eventID int) (int64, error) {
	var count int64
	if err := s.db.Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return 0, &CollaboratorError{Op: "count registrations", Err: err}
	}
	return count, nil
}

// IsRegistered reports whether the pairing exists.
func (s *RegistrationService) IsRegistered(eventID, userID int) (bool, error) {
	var count int64
	if err := s.db.Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, &CollaboratorError{Op: "load registration", Err: err}
	}
	return count > 0, nil
}

// RegistrationFeed fans registration-count changes out to subscribers, one
// channel per watching client. Sends never block: a slow subscriber misses
// intermediate counts and catches up on the next publish.
type RegistrationFeed struct {
	mu   sync.Mutex
	subs map[int]map[chan int64]struct{}
}

func NewRegistrationFeed() *RegistrationFeed {
	return &RegistrationFeed{subs: make(map[int]map[chan int64]struct{})}
}

// Subscribe returns a channel of count updates for the event and a cancel
// function the caller must invoke when done.
func (f *RegistrationFeed) Subscribe(eventID int) (<-chan int64, func()) {
	ch := make(chan int64, 8)

	f.mu.Lock()
	if f.subs[eventID] == nil {
		f.subs[eventID] = make(map[chan int64]struct{})
	}
	f.subs[eventID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[eventID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(f.subs, eventID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event's new count to all current subscribers.
func (f *RegistrationFeed) Publish(eventID int, count int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[eventID] {
		select {
		case ch <- count:
		default:
		}
	}
}
