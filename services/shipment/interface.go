package shipment

import (
	"context"
	"encoding/json"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"go.uber.org/zap"
)

// ShipmentSessionService manages the stateful draft editing session: create
// or resume a draft, walk it through the ordered steps, bind a rate, and
// finally hand it to the booking orchestrator.
type ShipmentSessionService interface {
	OpenSession(ctx context.Context, operator models.Owner, draftKey string) (*models.SessionState, error)
	GetSession(ctx context.Context, operator models.Owner, sessionID string) (*models.SessionState, error)
	AdvanceStep(ctx context.Context, operator models.Owner, sessionID string, payload json.RawMessage) (*models.SessionState, error)
	RetreatStep(ctx context.Context, operator models.Owner, sessionID string) (*models.SessionState, error)
	JumpToStep(ctx context.Context, operator models.Owner, sessionID string, step int) (*models.SessionState, error)
	BindRate(ctx context.Context, operator models.Owner, sessionID string, binding models.RateBinding) (*models.SessionState, error)
	Book(ctx context.Context, operator models.Owner, sessionID string) (*models.BookingAttempt, error)
	LastAttempt(ctx context.Context, draftKey string) (*models.BookingAttempt, error)
	CloseSession(ctx context.Context, operator models.Owner, sessionID string) error
}

// DefaultShipmentSessionService implements ShipmentSessionService.
type DefaultShipmentSessionService struct {
	Drafts       draftRepo.DraftRepository
	IDs          IDGenerator
	Sessions     SessionStore
	Orchestrator *BookingOrchestrator
	Logger       *zap.Logger
}
