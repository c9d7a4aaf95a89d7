package models

import "time"

// BookingPhase is the state of a single booking attempt.
type BookingPhase string

// A draft with no attempt is implicitly idle; an attempt starts in
// reserving.
const (
	PhaseReserving          BookingPhase = "reserving"
	PhaseGeneratingDocument BookingPhase = "generating_document"
	PhaseCompleted          BookingPhase = "completed"
	PhaseError              BookingPhase = "error"
)

// BookingAttempt is the ephemeral state of one user-initiated booking action.
// It lives alongside the draft, not inside it: an attempt that ends in error
// is terminal for the attempt only, and a retry starts a fresh attempt
// against the same draft key and rate binding.
type BookingAttempt struct {
	AttemptID      string       `json:"attemptId"`
	DraftKey       string       `json:"draftKey"`
	Phase          BookingPhase `json:"phase"`
	Carrier        string       `json:"carrier,omitempty"`
	ConfirmationID string       `json:"confirmationId,omitempty"`
	DocumentStatus string       `json:"documentStatus,omitempty"`
	Error          string       `json:"error,omitempty"`
	StartedAt      time.Time    `json:"startedAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}
