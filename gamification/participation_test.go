package gamification

import (
	"errors"
	"testing"
	"time"

	"github.com/spiritcity/spirit-api/models"
)

func intPtr(v int) *int { return &v }

func TestCheckJoinOpenEvent(t *testing.T) {
	event := &models.Event{MaxParticipants: intPtr(10)}

	already, err := CheckJoin(event, nil, 3, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if already {
		t.Error("alreadyJoined = true for a first join")
	}
}

func TestCheckJoinIdempotent(t *testing.T) {
	event := &models.Event{}
	for _, status := range []string{models.ParticipationJoined, models.ParticipationCompleted} {
		existing := &models.Participation{Status: status}
		already, err := CheckJoin(event, existing, 0, time.Now())
		if err != nil {
			t.Errorf("status %q: unexpected error: %v", status, err)
		}
		if !already {
			t.Errorf("status %q: alreadyJoined = false, want true", status)
		}
	}
}

func TestCheckJoinFullEvent(t *testing.T) {
	event := &models.Event{MaxParticipants: intPtr(2)}

	_, err := CheckJoin(event, nil, 2, time.Now())
	if !errors.Is(err, ErrEventFull) {
		t.Errorf("err = %v, want ErrEventFull", err)
	}
}

func TestCheckJoinUnlimitedCapacity(t *testing.T) {
	event := &models.Event{MaxParticipants: nil}

	_, err := CheckJoin(event, nil, 100000, time.Now())
	if err != nil {
		t.Errorf("nil max_participants must never be full, got %v", err)
	}
}

func TestCheckJoinEndedEvent(t *testing.T) {
	now := time.Now()
	ended := now.Add(-time.Hour)
	event := &models.Event{EndTime: &ended}

	_, err := CheckJoin(event, nil, 0, now)
	if !errors.Is(err, ErrEventEnded) {
		t.Errorf("err = %v, want ErrEventEnded", err)
	}
}

func TestCheckJoinExistingBeatsEnded(t *testing.T) {
	// A double tap after the event closed still returns the row, not an error.
	now := time.Now()
	ended := now.Add(-time.Hour)
	event := &models.Event{EndTime: &ended}
	existing := &models.Participation{Status: models.ParticipationJoined}

	already, err := CheckJoin(event, existing, 0, now)
	if err != nil || !already {
		t.Errorf("got (%v, %v), want (true, nil)", already, err)
	}
}

func TestCheckComplete(t *testing.T) {
	cases := []struct {
		name     string
		existing *models.Participation
		want     error
	}{
		{"never joined", nil, ErrNotJoined},
		{"joined", &models.Participation{Status: models.ParticipationJoined}, nil},
		{"already completed", &models.Participation{Status: models.ParticipationCompleted}, ErrAlreadyCompleted},
	}
	for _, c := range cases {
		if err := CheckComplete(c.existing); !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
	}
}

func TestCheckProximity(t *testing.T) {
	event := &models.Event{Latitude: 43.2580, Longitude: 76.9438}

	// ~100 m north of the event.
	if err := CheckProximity(event, 43.2589, 76.9438, 200); err != nil {
		t.Errorf("100 m away rejected: %v", err)
	}
	// ~300 m north of the event.
	if err := CheckProximity(event, 43.2607, 76.9438, 200); !errors.Is(err, ErrTooFarFromEvent) {
		t.Errorf("300 m away: err = %v, want ErrTooFarFromEvent", err)
	}
	// Standing at the venue.
	if err := CheckProximity(event, 43.2580, 76.9438, 200); err != nil {
		t.Errorf("zero distance rejected: %v", err)
	}
}

func TestCheckQR(t *testing.T) {
	event := &models.Event{ID: "evt-1", QRSecret: "abc123"}

	if err := CheckQR(event, "abc123"); err != nil {
		t.Errorf("bare secret rejected: %v", err)
	}
	if err := CheckQR(event, "evt-1:abc123"); err != nil {
		t.Errorf("prefixed payload rejected: %v", err)
	}
	if err := CheckQR(event, "evt-1:wrong"); !errors.Is(err, ErrInvalidQRCode) {
		t.Errorf("err = %v, want ErrInvalidQRCode", err)
	}
}
