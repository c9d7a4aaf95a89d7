package shipment

import (
	"context"
	"fmt"
	"sync"
	"time"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	rateRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/rate"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/carrierapi"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/tasks"

	"github.com/google/uuid"
)

// fakeDraftRepo is an in-memory DraftRepository.
type fakeDraftRepo struct {
	mu         sync.Mutex
	drafts     map[string]*models.ShipmentDraft
	taken      map[string]bool
	failPatch  map[models.Section]error
	failExists error
	patches    []patchCall
}

type patchCall struct {
	key     string
	section models.Section
	payload any
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{
		drafts: make(map[string]*models.ShipmentDraft),
		taken:  make(map[string]bool),
	}
}

func (r *fakeDraftRepo) Create(ctx context.Context, draft *models.ShipmentDraft) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if draft.Key == "" {
		draft.Key = uuid.New().String()
	}
	if draft.Status == "" {
		draft.Status = models.StatusDraft
	}
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()
	cp := *draft
	r.drafts[draft.Key] = &cp
	r.taken[draft.ShipmentID] = true
	return draft.Key, nil
}

func (r *fakeDraftRepo) GetByKey(ctx context.Context, key string) (*models.ShipmentDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[key]
	if !ok {
		return nil, draftRepo.ErrNotFound
	}
	cp := *draft
	return &cp, nil
}

func (r *fakeDraftRepo) PatchSection(ctx context.Context, key string, section models.Section, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failPatch[section]; ok && err != nil {
		return err
	}
	draft, ok := r.drafts[key]
	if !ok {
		return draftRepo.ErrNotFound
	}
	r.patches = append(r.patches, patchCall{key: key, section: section, payload: payload})
	switch section {
	case models.SectionInfo:
		draft.Sections.Info = payload.(models.InfoSection)
	case models.SectionOrigin:
		draft.Sections.Origin = payload.(models.AddressSection)
	case models.SectionDestination:
		draft.Sections.Destination = payload.(models.AddressSection)
	case models.SectionPackages:
		draft.Sections.Packages = payload.([]models.PackageItem)
	case models.SectionRate:
		draft.Sections.Rate = payload.(models.RateBinding)
	}
	draft.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDraftRepo) SetStatus(ctx context.Context, key string, status models.DraftStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[key]
	if !ok {
		return draftRepo.ErrNotFound
	}
	draft.Status = status
	return nil
}

func (r *fakeDraftRepo) SetShipmentID(ctx context.Context, key, shipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[key]
	if !ok {
		return draftRepo.ErrNotFound
	}
	draft.ShipmentID = shipmentID
	r.taken[shipmentID] = true
	return nil
}

func (r *fakeDraftRepo) SetConfirmation(ctx context.Context, key, confirmationID, documentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[key]
	if !ok {
		return draftRepo.ErrNotFound
	}
	draft.ConfirmationID = confirmationID
	draft.DocumentStatus = documentStatus
	return nil
}

func (r *fakeDraftRepo) SetDocumentStatus(ctx context.Context, key, documentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[key]
	if !ok {
		return draftRepo.ErrNotFound
	}
	draft.DocumentStatus = documentStatus
	return nil
}

func (r *fakeDraftRepo) FindByShipmentID(ctx context.Context, companyID, shipmentID string) (*models.ShipmentDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, draft := range r.drafts {
		if draft.Owner.CompanyID == companyID && draft.ShipmentID == shipmentID {
			cp := *draft
			return &cp, nil
		}
	}
	return nil, draftRepo.ErrNotFound
}

func (r *fakeDraftRepo) ExistsShipmentID(ctx context.Context, companyID, shipmentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failExists != nil {
		return false, r.failExists
	}
	return r.taken[shipmentID], nil
}

// fakeRateRepo is an in-memory RateRepository.
type fakeRateRepo struct {
	mu       sync.Mutex
	records  map[string]*models.RateRecord
	failSave error
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{records: make(map[string]*models.RateRecord)}
}

func (r *fakeRateRepo) Save(ctx context.Context, record *models.RateRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return "", r.failSave
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	cp := *record
	r.records[record.ID] = &cp
	return record.ID, nil
}

func (r *fakeRateRepo) GetByID(ctx context.Context, id string) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, rateRepo.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (r *fakeRateRepo) GetByDraftKey(ctx context.Context, draftKey string) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.DraftKey == draftKey {
			cp := *record
			return &cp, nil
		}
	}
	return nil, rateRepo.ErrNotFound
}

// fakeGateway is a scriptable carrier gateway that records call order into a
// shared event log.
type fakeGateway struct {
	events *[]string

	bookResp  *carrierapi.GatewayResponse
	bookErr   error
	labelResp *carrierapi.GatewayResponse
	labelErr  error
	bolResp   *carrierapi.GatewayResponse
	bolErr    error

	bookReqs  []carrierapi.BookRequest
	labelReqs []carrierapi.LabelRequest
	bolReqs   []carrierapi.BOLRequest
}

func newFakeGateway(events *[]string) *fakeGateway {
	return &fakeGateway{
		events:    events,
		bookResp:  &carrierapi.GatewayResponse{Success: true, Data: map[string]any{"confirmationNumber": "CONF-1"}},
		labelResp: &carrierapi.GatewayResponse{Success: true},
		bolResp:   &carrierapi.GatewayResponse{Success: true},
	}
}

func (g *fakeGateway) record(event string) {
	if g.events != nil {
		*g.events = append(*g.events, event)
	}
}

func (g *fakeGateway) BookRate(ctx context.Context, req carrierapi.BookRequest) (*carrierapi.GatewayResponse, error) {
	g.record("book")
	g.bookReqs = append(g.bookReqs, req)
	return g.bookResp, g.bookErr
}

func (g *fakeGateway) GenerateLabel(ctx context.Context, req carrierapi.LabelRequest) (*carrierapi.GatewayResponse, error) {
	g.record("label")
	g.labelReqs = append(g.labelReqs, req)
	return g.labelResp, g.labelErr
}

func (g *fakeGateway) GenerateBOL(ctx context.Context, req carrierapi.BOLRequest) (*carrierapi.GatewayResponse, error) {
	g.record("bol")
	g.bolReqs = append(g.bolReqs, req)
	return g.bolResp, g.bolErr
}

// fakeEnqueuer records queued document regenerations.
type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []tasks.DocumentRegenPayload
}

func (e *fakeEnqueuer) EnqueueDocumentRegen(payload tasks.DocumentRegenPayload, delay time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payloads = append(e.payloads, payload)
	return nil
}

// memorySessionStore is an in-memory SessionStore.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.DraftSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*models.DraftSession)}
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.DraftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *memorySessionStore) Put(ctx context.Context, session *models.DraftSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// completeSections returns a fully-populated section set ready for booking.
func completeSections(carrier string) models.ShipmentSections {
	return models.ShipmentSections{
		Info: models.InfoSection{
			ShipmentType:    "courier",
			ReferenceNumber: "REF-100",
			PickupDate:      "2026-09-01",
		},
		Origin: models.AddressSection{
			Company:     "Acme Widgets",
			ContactName: "Sam Shipper",
			Street:      "100 Industrial Ave",
			City:        "Toronto",
			State:       "ON",
			PostalCode:  "M5V 1A1",
			Country:     "CA",
			Phone:       "416-555-0100",
		},
		Destination: models.AddressSection{
			CustomerID:  "cust-77",
			Company:     "Beta Receiving",
			ContactName: "Rae Receiver",
			Street:      "200 Dock St",
			City:        "Vancouver",
			State:       "BC",
			PostalCode:  "V6B 2K4",
			Country:     "CA",
			Phone:       "604-555-0200",
		},
		Packages: []models.PackageItem{
			{Description: "Boxes of parts", Quantity: 2, Weight: 12.5, Length: 30, Width: 20, Height: 15},
		},
		Rate: models.RateBinding{
			Snapshot: &models.RateSnapshot{
				Format:      models.RateFormatStructured,
				Carrier:     carrier,
				Service:     "Ground",
				Currency:    "CAD",
				TotalCharge: 145.50,
				Charges: []models.RateCharge{
					{Code: "FRT", Name: "Freight", Amount: 120.00},
					{Code: "FUE", Name: "Fuel Surcharge", Amount: 25.50},
				},
			},
		},
	}
}

func gatewayFailure(msg string) *carrierapi.GatewayResponse {
	return &carrierapi.GatewayResponse{Success: false, Error: msg}
}

var errDown = fmt.Errorf("dependency unavailable")
