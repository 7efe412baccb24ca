// internal/workers/labor/notify-shortlist/models.go
package notifyshortlist

import "crew-match-workers/internal/matching"

type Requester struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Input struct {
	MatchID   string                    `json:"matchId"`
	Trade     string                    `json:"trade"`
	Requester Requester                 `json:"requester"`
	Shortlist []matching.CandidateScore `json:"shortlist"`
	// Candidates carries contact details when the caller already has them.
	// When nil, phone numbers are read from the database.
	Candidates []matching.CandidateProfile `json:"candidates,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "partial", "failed", "disabled"
	EmailSent      bool   `json:"emailSent"`
	SMSSent        int    `json:"smsSent"`
	SMSFailed      int    `json:"smsFailed"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
