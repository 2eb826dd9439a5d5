package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailType for registration automation.
const (
	EmailTypeRegistrationConfirmation = "registration_confirmation"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records confirmation emails produced by the worker.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	WebinarID      string     `json:"webinar_id"`
	RegistrationID uuid.UUID  `json:"registration_id"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
