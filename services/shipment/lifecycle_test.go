package shipment

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testOperator = models.Owner{CompanyID: "acme", UserID: "user-1"}

type lifecycleFixture struct {
	repo     *fakeDraftRepo
	store    *memorySessionStore
	gw       *fakeGateway
	events   []string
	svc      *DefaultShipmentSessionService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	f := &lifecycleFixture{
		repo:  newFakeDraftRepo(),
		store: newMemorySessionStore(),
	}
	f.gw = newFakeGateway(&f.events)

	orch := &BookingOrchestrator{
		Drafts:      f.repo,
		Rates:       newFakeRateRepo(),
		Gateway:     f.gw,
		Tasks:       &fakeEnqueuer{},
		LabelDelay:  time.Second,
		ConfirmWait: time.Second,
		Logger:      zap.NewNop(),
	}
	orch.sleep = func(ctx context.Context, d time.Duration) {}

	f.svc = &DefaultShipmentSessionService{
		Drafts:       f.repo,
		IDs:          &DraftIDGenerator{Drafts: f.repo, Logger: zap.NewNop()},
		Sessions:     f.store,
		Orchestrator: orch,
		Logger:       zap.NewNop(),
	}
	return f
}

func (f *lifecycleFixture) seedDraft(t *testing.T, owner models.Owner, status models.DraftStatus, sections models.ShipmentSections) string {
	t.Helper()
	draft := &models.ShipmentDraft{
		ShipmentID: "ACMXXX-SEED1",
		Status:     status,
		Owner:      owner,
		Sections:   sections,
	}
	key, err := f.repo.Create(context.Background(), draft)
	require.NoError(t, err)
	return key
}

func TestOpenSessionCreatesFreshDraft(t *testing.T) {
	f := newLifecycleFixture(t)

	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	assert.NotEmpty(t, state.SessionID)
	assert.NotEmpty(t, state.DraftKey)
	assert.True(t, strings.HasPrefix(state.ShipmentID, "ACMXXX-"), "got %s", state.ShipmentID)
	assert.Equal(t, models.StatusDraft, state.Status)
	assert.Equal(t, int(StepInfo), state.Step)
	assert.Equal(t, "info", state.StepName)
	assert.NotNil(t, state.Sections.Packages)

	stored, err := f.repo.GetByKey(context.Background(), state.DraftKey)
	require.NoError(t, err)
	assert.Equal(t, testOperator, stored.Owner)
}

func TestOpenSessionResumesPastCompleteSections(t *testing.T) {
	f := newLifecycleFixture(t)
	sections := defaultSections()
	complete := completeSections("CANPAR")
	sections.Info = complete.Info
	sections.Origin = complete.Origin
	key := f.seedDraft(t, testOperator, models.StatusDraft, sections)

	state, err := f.svc.OpenSession(context.Background(), testOperator, key)
	require.NoError(t, err)

	assert.Equal(t, key, state.DraftKey)
	assert.Equal(t, int(StepDestination), state.Step)
	assert.True(t, state.Completeness[models.SectionInfo].Complete)
	assert.False(t, state.Completeness[models.SectionDestination].Complete)
}

func TestOpenSessionFullyCompleteDraftLandsOnReview(t *testing.T) {
	f := newLifecycleFixture(t)
	key := f.seedDraft(t, testOperator, models.StatusDraft, completeSections("CANPAR"))

	state, err := f.svc.OpenSession(context.Background(), testOperator, key)
	require.NoError(t, err)
	assert.Equal(t, int(StepReview), state.Step)
	assert.Equal(t, "review", state.StepName)
}

func TestOpenSessionRejectsForeignDraft(t *testing.T) {
	f := newLifecycleFixture(t)
	key := f.seedDraft(t, models.Owner{CompanyID: "rival", UserID: "user-9"}, models.StatusDraft, defaultSections())

	_, err := f.svc.OpenSession(context.Background(), testOperator, key)
	assert.ErrorIs(t, err, ErrDraftAccessDenied)
}

func TestOpenSessionRejectsNonEditableDraft(t *testing.T) {
	f := newLifecycleFixture(t)
	for _, status := range []models.DraftStatus{models.StatusProcessing, models.StatusBooked, models.StatusError} {
		key := f.seedDraft(t, testOperator, status, completeSections("CANPAR"))
		_, err := f.svc.OpenSession(context.Background(), testOperator, key)
		assert.ErrorIs(t, err, ErrDraftNotEditable, "status %s", status)
	}
}

func TestOpenSessionStaleKeyFallsBackToNewDraft(t *testing.T) {
	f := newLifecycleFixture(t)

	state, err := f.svc.OpenSession(context.Background(), testOperator, "no-such-key")
	require.NoError(t, err)
	assert.NotEqual(t, "no-such-key", state.DraftKey)
	assert.Equal(t, int(StepInfo), state.Step)
}

func TestAdvanceStepPersistsAndMovesForward(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	payload := json.RawMessage(`{"shipmentType":"courier","referenceNumber":"REF-1","pickupDate":"2026-09-01"}`)
	next, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID, payload)
	require.NoError(t, err)

	assert.Equal(t, int(StepOrigin), next.Step)
	assert.Empty(t, next.Warning)
	assert.True(t, next.Completeness[models.SectionInfo].Complete)

	stored, err := f.repo.GetByKey(context.Background(), state.DraftKey)
	require.NoError(t, err)
	assert.Equal(t, "REF-1", stored.Sections.Info.ReferenceNumber)
}

func TestAdvanceStepRejectsMalformedPayload(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID, json.RawMessage(`{"shipmentType":42}`))

	var payloadErr *SectionPayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, models.SectionInfo, payloadErr.Section)
}

func TestAdvanceStepSurfacesPersistFailureAsWarning(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)
	f.repo.failPatch = map[models.Section]error{models.SectionInfo: errDown}

	next, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID,
		json.RawMessage(`{"shipmentType":"courier"}`))
	require.NoError(t, err, "a persist failure is a warning, not an error")

	assert.Equal(t, int(StepOrigin), next.Step, "navigation advances optimistically")
	assert.Contains(t, next.Warning, "failed to persist section info")
	assert.Equal(t, "courier", next.Sections.Info.ShipmentType)
}

func TestAdvanceOnDestinationRegeneratesShipmentID(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(state.ShipmentID, "ACMXXX-"))

	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)

	next, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID,
		json.RawMessage(`{"customerId":"dynamex","company":"Beta Receiving"}`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(next.ShipmentID, "ACMDYN-"),
		"customer token replaces the placeholder: got %s", next.ShipmentID)
}

func TestRepeatedDestinationAdvanceKeepsShipmentID(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	payload := json.RawMessage(`{"customerId":"dynamex","company":"Beta Receiving"}`)
	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)
	first, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID, payload)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.ShipmentID, "ACMDYN-"))

	// Editing the destination again with the same customer must not burn a
	// fresh id.
	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)
	second, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID, payload)
	require.NoError(t, err)

	assert.Equal(t, first.ShipmentID, second.ShipmentID)
}

func TestSwitchingCustomerRegeneratesShipmentID(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)
	first, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID,
		json.RawMessage(`{"customerId":"dynamex"}`))
	require.NoError(t, err)

	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)
	second, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID,
		json.RawMessage(`{"customerId":"globex"}`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(second.ShipmentID, "ACMGLO-"), "got %s", second.ShipmentID)
	assert.NotEqual(t, first.ShipmentID, second.ShipmentID)
}

func TestBoundRateFreezesShipmentID(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.BindRate(context.Background(), testOperator, state.SessionID,
		models.RateBinding{RateDocumentID: "rate-1"})
	require.NoError(t, err)

	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepDestination))
	require.NoError(t, err)
	next, err := f.svc.AdvanceStep(context.Background(), testOperator, state.SessionID,
		json.RawMessage(`{"customerId":"dynamex"}`))
	require.NoError(t, err)

	assert.Equal(t, state.ShipmentID, next.ShipmentID, "a bound rate pins the shipment id")
}

func TestRetreatAndJumpMoveWithoutPersisting(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	jumped, err := f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, int(StepPackages))
	require.NoError(t, err)
	assert.Equal(t, int(StepPackages), jumped.Step)

	back, err := f.svc.RetreatStep(context.Background(), testOperator, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int(StepDestination), back.Step)

	assert.Empty(t, f.repo.patches, "neither movement touches the draft store")
}

func TestJumpToStepRejectsOutOfRange(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.JumpToStep(context.Background(), testOperator, state.SessionID, 99)
	assert.Error(t, err)
}

func TestBindRatePersistsImmediately(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	next, err := f.svc.BindRate(context.Background(), testOperator, state.SessionID,
		models.RateBinding{Snapshot: &models.RateSnapshot{Carrier: "CANPAR", TotalCharge: 99}})
	require.NoError(t, err)
	assert.True(t, next.Completeness[models.SectionRate].Complete)

	stored, err := f.repo.GetByKey(context.Background(), state.DraftKey)
	require.NoError(t, err)
	assert.True(t, stored.Sections.Rate.Bound())
}

func TestBindRateRejectsEmptyBinding(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.BindRate(context.Background(), testOperator, state.SessionID, models.RateBinding{})
	assert.ErrorIs(t, err, ErrNoRateBound)
}

func TestBindRatePersistFailureKeepsSessionBinding(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)
	f.repo.failPatch = map[models.Section]error{models.SectionRate: errDown}

	next, err := f.svc.BindRate(context.Background(), testOperator, state.SessionID,
		models.RateBinding{RateDocumentID: "rate-1"})
	require.NoError(t, err)

	assert.Contains(t, next.Warning, "failed to persist section rate")
	assert.True(t, next.Sections.Rate.Bound(), "the session keeps the binding for booking time")
}

func TestBookUsesSessionSectionsAndRecordsAttempt(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	// Sections accumulated over the session are authoritative at commit time.
	session, err := f.store.Get(context.Background(), state.SessionID)
	require.NoError(t, err)
	session.Sections = completeSections("WARD")
	require.NoError(t, f.store.Put(context.Background(), session))

	attempt, err := f.svc.Book(context.Background(), testOperator, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseCompleted, attempt.Phase)

	stored, err := f.repo.GetByKey(context.Background(), state.DraftKey)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, stored.Status)

	after, err := f.store.Get(context.Background(), state.SessionID)
	require.NoError(t, err)
	require.NotNil(t, after.Attempt)
	assert.Equal(t, attempt.AttemptID, after.Attempt.AttemptID)
}

func TestBookWithoutRateFailsBeforeAnyCall(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), testOperator, state.SessionID)
	assert.ErrorIs(t, err, ErrNoRateBound)
	assert.Empty(t, f.events)
}

func TestSessionOperationsRejectForeignOperator(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	rival := models.Owner{CompanyID: "rival", UserID: "user-9"}
	_, err = f.svc.GetSession(context.Background(), rival, state.SessionID)
	assert.ErrorIs(t, err, ErrDraftAccessDenied)

	err = f.svc.CloseSession(context.Background(), rival, state.SessionID)
	assert.ErrorIs(t, err, ErrDraftAccessDenied)

	// A same-company colleague cannot touch another operator's session.
	colleague := models.Owner{CompanyID: testOperator.CompanyID, UserID: "user-2"}
	err = f.svc.CloseSession(context.Background(), colleague, state.SessionID)
	assert.ErrorIs(t, err, ErrDraftAccessDenied)

	_, err = f.svc.GetSession(context.Background(), testOperator, state.SessionID)
	assert.NoError(t, err, "the session survives the denied close")
}

func TestCloseSessionClearsEditingState(t *testing.T) {
	f := newLifecycleFixture(t)
	state, err := f.svc.OpenSession(context.Background(), testOperator, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.CloseSession(context.Background(), testOperator, state.SessionID))

	_, err = f.svc.GetSession(context.Background(), testOperator, state.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The draft record itself is untouched.
	stored, err := f.repo.GetByKey(context.Background(), state.DraftKey)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)
}

func TestGetSessionUnknownIDReturnsNotFound(t *testing.T) {
	f := newLifecycleFixture(t)
	_, err := f.svc.GetSession(context.Background(), testOperator, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
