package models

import (
	"time"

	"github.com/google/uuid"
)

// Registrant is the locally persisted record of a webinar signup.
// (webinar_id, email) is unique; fields beyond the key are written once by
// the first successful registration and never updated.
type Registrant struct {
	ID           uuid.UUID `json:"id"`
	WebinarID    string    `json:"webinar_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Topic        string    `json:"topic"`
	JoinURL      string    `json:"join_url"`
	StartTime    time.Time `json:"start_time"`
	RegistrantID string    `json:"registrant_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// WebinarDescriptor is the transient view of a webinar used by the
// registration page. Built fresh on every lookup; upstream is authoritative.
type WebinarDescriptor struct {
	ID               string    `json:"id"`
	Topic            string    `json:"topic"`
	StartTime        time.Time `json:"start_time"`
	RegistrationOpen bool      `json:"registration_open"`
}
