package shipment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenSession owns the creation-vs-resume decision. With no key it creates a
// fresh draft; with a key it loads the draft, verifies ownership and status,
// and hydrates the editing state from the persisted sections. A key that no
// longer resolves falls back to creating a new draft.
func (s *DefaultShipmentSessionService) OpenSession(ctx context.Context, operator models.Owner, draftKey string) (*models.SessionState, error) {
	var draft *models.ShipmentDraft

	if draftKey != "" {
		loaded, err := s.Drafts.GetByKey(ctx, draftKey)
		switch {
		case errors.Is(err, draftRepo.ErrNotFound):
			s.Logger.Warn("resume key did not resolve, creating new draft",
				zap.String("draftKey", draftKey))
		case err != nil:
			return nil, fmt.Errorf("failed to load draft: %w", err)
		default:
			if loaded.Owner != operator {
				return nil, ErrDraftAccessDenied
			}
			if !loaded.Editable() {
				return nil, ErrDraftNotEditable
			}
			draft = loaded
		}
	}

	if draft == nil {
		created, err := s.createDraft(ctx, operator)
		if err != nil {
			return nil, err
		}
		draft = created
	}

	acc := NewAccumulator()
	acc.Restore(draft.Sections)

	session := &models.DraftSession{
		SessionID: uuid.New().String(),
		DraftKey:  draft.Key,
		CompanyID: operator.CompanyID,
		UserID:    operator.UserID,
		Step:      int(firstIncompleteStep(acc.Sections())),
		Sections:  acc.Sections(),
	}
	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store editing session: %w", err)
	}

	s.Logger.Info("opened shipment session",
		zap.String("sessionId", session.SessionID),
		zap.String("draftKey", draft.Key),
		zap.Int("step", session.Step),
	)
	return s.buildState(session, draft, ""), nil
}

func (s *DefaultShipmentSessionService) createDraft(ctx context.Context, operator models.Owner) (*models.ShipmentDraft, error) {
	shipmentID, err := s.IDs.Generate(ctx, operator.CompanyID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate shipment id: %w", err)
	}

	draft := &models.ShipmentDraft{
		ShipmentID: shipmentID,
		Status:     models.StatusDraft,
		Owner:      operator,
		Sections:   defaultSections(),
	}
	if _, err := s.Drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

// GetSession returns the current editing state.
func (s *DefaultShipmentSessionService) GetSession(ctx context.Context, operator models.Owner, sessionID string) (*models.SessionState, error) {
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildState(session, draft, ""), nil
}

// AdvanceStep merges the payload into the current step's section, persists
// it, and moves forward. A persist failure still advances the in-memory
// state and is reported as a warning on the returned state.
func (s *DefaultShipmentSessionService) AdvanceStep(ctx context.Context, operator models.Owner, sessionID string, payload json.RawMessage) (*models.SessionState, error) {
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}

	acc, nav := s.rebuild(session)
	step := nav.Current()

	typed, err := decodeStepPayload(step, payload)
	if err != nil {
		return nil, err
	}

	var warning string
	if err := nav.Advance(ctx, typed); err != nil {
		var persistErr *PersistError
		if !errors.As(err, &persistErr) {
			return nil, err
		}
		warning = persistErr.Error()
	}

	// Once the destination step binds a customer, the shipment id is
	// regenerated to embed the customer token. It stays mutable until a
	// rate binds it permanently.
	if step == StepDestination {
		s.maybeRegenerateID(ctx, draft, acc.Sections())
	}

	session.Step = int(nav.Current())
	session.Sections = acc.Sections()
	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store editing session: %w", err)
	}
	return s.buildState(session, draft, warning), nil
}

// RetreatStep moves back one step without persisting anything.
func (s *DefaultShipmentSessionService) RetreatStep(ctx context.Context, operator models.Owner, sessionID string) (*models.SessionState, error) {
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}
	_, nav := s.rebuild(session)
	if err := nav.Retreat(); err != nil {
		return nil, err
	}
	session.Step = int(nav.Current())
	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store editing session: %w", err)
	}
	return s.buildState(session, draft, ""), nil
}

// JumpToStep moves to an arbitrary step, used when resuming a draft whose
// sections are already persisted. Intermediate steps are not re-validated
// and nothing is re-persisted.
func (s *DefaultShipmentSessionService) JumpToStep(ctx context.Context, operator models.Owner, sessionID string, step int) (*models.SessionState, error) {
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}
	_, nav := s.rebuild(session)
	if err := nav.JumpTo(Step(step)); err != nil {
		return nil, err
	}
	session.Step = int(nav.Current())
	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store editing session: %w", err)
	}
	return s.buildState(session, draft, ""), nil
}

// BindRate records the operator's rate selection. The binding may be a
// persisted rate document id or a transient snapshot; snapshot-only bindings
// get persisted by the orchestrator before booking.
func (s *DefaultShipmentSessionService) BindRate(ctx context.Context, operator models.Owner, sessionID string, binding models.RateBinding) (*models.SessionState, error) {
	if !binding.Bound() {
		return nil, ErrNoRateBound
	}
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}

	acc, _ := s.rebuild(session)
	if err := acc.Update(models.SectionRate, binding); err != nil {
		return nil, err
	}
	session.Sections = acc.Sections()

	var warning string
	if err := s.Drafts.PatchSection(ctx, session.DraftKey, models.SectionRate, binding); err != nil {
		warning = (&PersistError{Section: models.SectionRate, Err: err}).Error()
		s.Logger.Warn("failed to persist rate binding",
			zap.String("draftKey", session.DraftKey), zap.Error(err))
	}

	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store editing session: %w", err)
	}
	return s.buildState(session, draft, warning), nil
}

// Book hands the draft to the booking orchestrator. The in-memory sections
// are authoritative at commit time.
func (s *DefaultShipmentSessionService) Book(ctx context.Context, operator models.Owner, sessionID string) (*models.BookingAttempt, error) {
	session, draft, err := s.loadSession(ctx, operator, sessionID)
	if err != nil {
		return nil, err
	}

	draft.Sections = session.Sections
	attempt, err := s.Orchestrator.Book(ctx, draft)
	if err != nil {
		return nil, err
	}

	session.Attempt = attempt
	session.Sections = draft.Sections
	if err := s.Sessions.Put(ctx, session); err != nil {
		s.Logger.Warn("failed to store session after booking",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	return attempt, nil
}

// LastAttempt returns the most recent booking attempt for a draft key.
func (s *DefaultShipmentSessionService) LastAttempt(ctx context.Context, draftKey string) (*models.BookingAttempt, error) {
	return s.Orchestrator.LastAttempt(ctx, draftKey)
}

// CloseSession is the operator's return to the listing view: it clears the
// in-memory accumulator state. The draft record itself is untouched.
func (s *DefaultShipmentSessionService) CloseSession(ctx context.Context, operator models.Owner, sessionID string) error {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.CompanyID != operator.CompanyID || session.UserID != operator.UserID {
		return ErrDraftAccessDenied
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// --- helpers ---

func (s *DefaultShipmentSessionService) loadSession(ctx context.Context, operator models.Owner, sessionID string) (*models.DraftSession, *models.ShipmentDraft, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.CompanyID != operator.CompanyID || session.UserID != operator.UserID {
		return nil, nil, ErrDraftAccessDenied
	}
	draft, err := s.Drafts.GetByKey(ctx, session.DraftKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load draft for session: %w", err)
	}
	return session, draft, nil
}

func (s *DefaultShipmentSessionService) rebuild(session *models.DraftSession) (*Accumulator, *Navigator) {
	acc := NewAccumulator()
	acc.Restore(session.Sections)
	nav := NewNavigator(acc, s.Drafts, session.DraftKey, s.Logger)
	_ = nav.JumpTo(Step(session.Step))
	return acc, nav
}

func (s *DefaultShipmentSessionService) buildState(session *models.DraftSession, draft *models.ShipmentDraft, warning string) *models.SessionState {
	return &models.SessionState{
		SessionID:    session.SessionID,
		DraftKey:     session.DraftKey,
		ShipmentID:   draft.ShipmentID,
		Status:       draft.Status,
		Step:         session.Step,
		StepName:     Step(session.Step).Name(),
		Sections:     session.Sections,
		Completeness: Evaluate(session.Sections),
		Attempt:      session.Attempt,
		Warning:      warning,
	}
}

// maybeRegenerateID swaps the shipment id for one embedding the customer
// token once the destination binds a customer, as long as no rate has bound
// the id permanently. An id that already carries the bound customer's token
// is left alone, so re-advancing the destination step does not churn ids.
func (s *DefaultShipmentSessionService) maybeRegenerateID(ctx context.Context, draft *models.ShipmentDraft, sections models.ShipmentSections) {
	customerID := sections.Destination.CustomerID
	if customerID == "" || sections.Rate.Bound() {
		return
	}
	prefix := idToken(draft.Owner.CompanyID) + idToken(customerID) + "-"
	if strings.HasPrefix(draft.ShipmentID, prefix) {
		return
	}

	newID, err := s.IDs.Generate(ctx, draft.Owner.CompanyID, customerID)
	if err != nil {
		s.Logger.Warn("failed to regenerate shipment id",
			zap.String("draftKey", draft.Key), zap.Error(err))
		return
	}
	if err := s.Drafts.SetShipmentID(ctx, draft.Key, newID); err != nil {
		s.Logger.Warn("failed to store regenerated shipment id",
			zap.String("draftKey", draft.Key), zap.Error(err))
		return
	}
	draft.ShipmentID = newID
}

// firstIncompleteStep positions a resumed session past its already-complete
// sections.
func firstIncompleteStep(sections models.ShipmentSections) Step {
	statuses := Evaluate(sections)
	for step := StepInfo; step < StepReview; step++ {
		if !statuses[stepSections[step]].Complete {
			return step
		}
	}
	return StepReview
}

// decodeStepPayload parses the raw step payload into the typed section value
// the accumulator expects. Malformed input is rejected here, at the
// boundary.
func decodeStepPayload(step Step, payload json.RawMessage) (any, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	section, ok := stepSections[step]
	if !ok {
		return nil, ErrAtFinalStep
	}

	reject := func(err error) (any, error) {
		return nil, &SectionPayloadError{Section: section, Reason: err.Error()}
	}

	switch section {
	case models.SectionInfo:
		var p models.InfoSection
		if err := json.Unmarshal(payload, &p); err != nil {
			return reject(err)
		}
		return p, nil
	case models.SectionOrigin, models.SectionDestination:
		var p models.AddressSection
		if err := json.Unmarshal(payload, &p); err != nil {
			return reject(err)
		}
		return p, nil
	case models.SectionPackages:
		var p []models.PackageItem
		if err := json.Unmarshal(payload, &p); err != nil {
			return reject(err)
		}
		return p, nil
	case models.SectionRate:
		var p models.RateBinding
		if err := json.Unmarshal(payload, &p); err != nil {
			return reject(err)
		}
		return p, nil
	}
	return nil, &SectionPayloadError{Section: section, Reason: "unknown section"}
}
