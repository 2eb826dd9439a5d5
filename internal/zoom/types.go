package zoom

import "time"

// ApprovalTypeNone means the webinar does not require registration at all.
// See the Zoom webinar settings docs; 0 = automatic, 1 = manual, 2 = none.
const ApprovalTypeNone = 2

// WebinarSettings is the subset of upstream webinar settings we read.
type WebinarSettings struct {
	ApprovalType int `json:"approval_type"`
}

// Webinar is the upstream response for GET /webinars/{id}.
type Webinar struct {
	Topic     string          `json:"topic"`
	StartTime time.Time       `json:"start_time"`
	Settings  WebinarSettings `json:"settings"`
}

// RegistrationOpen reports whether the webinar accepts registrations.
func (w *Webinar) RegistrationOpen() bool {
	return w.Settings.ApprovalType != ApprovalTypeNone
}

// RegistrantRequest is the body for POST /webinars/{id}/registrants.
type RegistrantRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegistrationResponse is the upstream response for a created registrant.
type RegistrationResponse struct {
	RegistrantID string    `json:"registrant_id"`
	JoinURL      string    `json:"join_url"`
	StartTime    time.Time `json:"start_time"`
	Topic        string    `json:"topic"`
}
