package gamification

import (
	"errors"
	"time"

	"github.com/spiritcity/spirit-api/models"
)

// Domain errors for the participation lifecycle. Controllers map these to
// specific HTTP detail strings so the client can show precise copy.
var (
	ErrEventFull        = errors.New("event is full")
	ErrEventEnded       = errors.New("event already ended")
	ErrNotJoined        = errors.New("not joined")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrInvalidQRCode    = errors.New("invalid qr code")
	ErrTooFarFromEvent  = errors.New("too far from event location")
)

// CheckJoin validates the NotJoined->Joined transition. Join is idempotent:
// when a participation already exists (joined or completed) the caller returns
// it unchanged instead of failing, matching what the mobile client expects
// after a double tap. alreadyJoined reports that case.
func CheckJoin(event *models.Event, existing *models.Participation, participants int64, now time.Time) (alreadyJoined bool, err error) {
	if existing != nil {
		return true, nil
	}
	if event.Ended(now) {
		return false, ErrEventEnded
	}
	if event.MaxParticipants != nil && participants >= int64(*event.MaxParticipants) {
		return false, ErrEventFull
	}
	return false, nil
}

// CheckComplete validates the Joined->Completed transition precondition.
// The caller must still flip the status with a conditional update so that a
// concurrent completion loses the race and observes AlreadyCompleted.
func CheckComplete(existing *models.Participation) error {
	if existing == nil {
		return ErrNotJoined
	}
	switch existing.Status {
	case models.ParticipationJoined:
		return nil
	case models.ParticipationCompleted:
		return ErrAlreadyCompleted
	default:
		return ErrNotJoined
	}
}

// CheckProximity enforces the hard distance gate on the QR completion path.
// The client applies the same radius as a UX gate, but the server-side check
// is the authority.
func CheckProximity(event *models.Event, lat, lon, radiusMeters float64) error {
	if DistanceMeters(lat, lon, event.Latitude, event.Longitude) > radiusMeters {
		return ErrTooFarFromEvent
	}
	return nil
}

// CheckQR validates a scanned payload against the event's issued secret.
func CheckQR(event *models.Event, scanned string) error {
	if !VerifyQRCode(event.QRSecret, scanned) {
		return ErrInvalidQRCode
	}
	return nil
}
