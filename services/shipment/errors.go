package shipment

import (
	"errors"
	"fmt"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
)

var (
	// ErrSessionNotFound means the editing session expired or never existed.
	ErrSessionNotFound = errors.New("shipment session not found or expired")
	// ErrDraftAccessDenied means the draft belongs to another owner.
	ErrDraftAccessDenied = errors.New("draft does not belong to this operator")
	// ErrDraftNotEditable means the draft already left the draft status.
	ErrDraftNotEditable = errors.New("draft is no longer editable")
	// ErrNoRateBound means booking was requested without a rate binding.
	ErrNoRateBound = errors.New("no rate bound to draft")
	// ErrBookingInFlight means a booking attempt is already running for the draft.
	ErrBookingInFlight = errors.New("a booking attempt is already in progress")
	// ErrAtFirstStep / ErrAtFinalStep guard navigation bounds.
	ErrAtFirstStep = errors.New("already at the first step")
	ErrAtFinalStep = errors.New("already at the final step")
)

// SectionPayloadError reports a payload that could not be parsed or applied
// to its section.
type SectionPayloadError struct {
	Section models.Section
	Reason  string
}

func (e *SectionPayloadError) Error() string {
	return fmt.Sprintf("invalid payload for section %s: %s", e.Section, e.Reason)
}

// PersistError wraps a draft store failure during step navigation. The
// in-memory state has still advanced; the caller surfaces the warning and the
// next successful persist overwrites the stale copy.
type PersistError struct {
	Section models.Section
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist section %s: %v", e.Section, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IncompleteDraftError reports which sections block booking.
type IncompleteDraftError struct {
	Sections []models.Section
}

func (e *IncompleteDraftError) Error() string {
	return fmt.Sprintf("draft has incomplete sections: %v", e.Sections)
}
