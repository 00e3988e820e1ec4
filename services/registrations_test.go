package services

import (
	"errors"
	"testing"
	"time"

	"association-portal-api/models"
)

func futureDate() time.Time {
	return time.Now().Add(48 * time.Hour)
}

func TestToggleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db, nil)
	event := createEvent(t, db, 10, futureDate())
	user := createUser(t, db, models.RoleStudent, "")

	before, err := svc.Count(event.EventID)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}

	on, err := svc.Toggle(event.EventID, user.UserID)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !on.Registered || on.Count != before+1 {
		t.Fatalf("unexpected state after register: %+v", on)
	}

	off, err := svc.Toggle(event.EventID, user.UserID)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if off.Registered || off.Count != before {
		t.Fatalf("unexpected state after cancel: %+v", off)
	}

	registered, err := svc.IsRegistered(event.EventID, user.UserID)
	if err != nil {
		t.Fatalf("IsRegistered returned error: %v", err)
	}
	if registered {
		t.Fatal("round trip must leave the user unregistered")
	}
	if off.Count < 0 {
		t.Fatalf("count must never be negative, got %d", off.Count)
	}
}

func TestCapacityExhaustion(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db, nil)
	event := createEvent(t, db, 1, futureDate())
	a := createUser(t, db, models.RoleStudent, "")
	b := createUser(t, db, models.RoleStudent, "")

	if _, err := svc.Toggle(event.EventID, a.UserID); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Toggle(event.EventID, b.UserID)
	var denied *AdmissionDeniedError
	if !errors.As(err, &denied) || denied.Code != ReasonCapacityExceeded {
		t.Fatalf("expected capacity denial, got %v", err)
	}

	count, _ := svc.Count(event.EventID)
	if count != 1 {
		t.Fatalf("count must remain 1, got %d", count)
	}
	if registered, _ := svc.IsRegistered(event.EventID, b.UserID); registered {
		t.Fatal("B must not be registered after denial")
	}

	// A cancels, freeing the slot for B.
	if _, err := svc.Toggle(event.EventID, a.UserID); err != nil {
		t.Fatalf("cancellation failed: %v", err)
	}
	if count, _ := svc.Count(event.EventID); count != 0 {
		t.Fatalf("count must be 0 after cancel, got %d", count)
	}

	result, err := svc.Toggle(event.EventID, b.UserID)
	if err != nil {
		t.Fatalf("B registration after free slot failed: %v", err)
	}
	if !result.Registered || result.Count != 1 {
		t.Fatalf("unexpected state for B: %+v", result)
	}
}

func TestPastEventRegistrationDenied(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db, nil)
	event := createEvent(t, db, 5, time.Now().Add(-time.Hour))
	user := createUser(t, db, models.RoleStudent, "")

	_, err := svc.Toggle(event.EventID, user.UserID)
	var denied *AdmissionDeniedError
	if !errors.As(err, &denied) || denied.Code != ReasonEventClosed {
		t.Fatalf("expected event-closed denial, got %v", err)
	}
}

func TestPastEventCancellationAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db, nil)
	event := createEvent(t, db, 5, futureDate())
	user := createUser(t, db, models.RoleStudent, "")

	if _, err := svc.Toggle(event.EventID, user.UserID); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// The event has since taken place.
	svc.now = func() time.Time { return event.Date.Add(24 * time.Hour) }

	result, err := svc.Toggle(event.EventID, user.UserID)
	if err != nil {
		t.Fatalf("cancellation of a past event must succeed: %v", err)
	}
	if result.Registered || result.Count != 0 {
		t.Fatalf("unexpected state after past-event cancel: %+v", result)
	}
}

func TestToggleUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db, nil)
	user := createUser(t, db, models.RoleStudent, "")

	if _, err := svc.Toggle(4242, user.UserID); err == nil {
		t.Fatal("expected an error for an unknown event")
	}
}

func TestFeedDeliversToggleCounts(t *testing.T) {
	db := newTestDB(t)
	feed := NewRegistrationFeed()
	svc := NewRegistrationService(db, feed)
	event := createEvent(t, db, 5, futureDate())
	user := createUser(t, db, models.RoleStudent, "")

	updates, cancel := feed.Subscribe(event.EventID)
	defer cancel()

	if _, err := svc.Toggle(event.EventID, user.UserID); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	select {
	case n := <-updates:
		if n != 1 {
			t.Fatalf("expected count 1 on the feed, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a feed update")
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	feed := NewRegistrationFeed()

	updates, cancel := feed.Subscribe(7)
	cancel()

	feed.Publish(7, 3)

	select {
	case n := <-updates:
		t.Fatalf("did not expect a delivery after cancel, got %d", n)
	default:
	}
}
