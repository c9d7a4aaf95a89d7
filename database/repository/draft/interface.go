package draftRepo

import (
	"context"
	"errors"

	"github.com/tmurray-at-tygershark/solushipX-sub005/database"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no draft exists for the given key.
var ErrNotFound = errors.New("shipment draft not found")

// DraftRepository is the persistence boundary for shipment drafts. All
// operations are keyed by the opaque draft key, never by the human-readable
// shipment id.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.ShipmentDraft) (string, error)
	GetByKey(ctx context.Context, key string) (*models.ShipmentDraft, error)
	PatchSection(ctx context.Context, key string, section models.Section, payload any) error
	SetStatus(ctx context.Context, key string, status models.DraftStatus) error
	SetShipmentID(ctx context.Context, key, shipmentID string) error
	SetConfirmation(ctx context.Context, key, confirmationID, documentStatus string) error
	SetDocumentStatus(ctx context.Context, key, documentStatus string) error
	FindByShipmentID(ctx context.Context, companyID, shipmentID string) (*models.ShipmentDraft, error)
	ExistsShipmentID(ctx context.Context, companyID, shipmentID string) (bool, error)
}

type mongoDraftRepo struct {
	coll *mongo.Collection
}

// NewMongoDraftRepo returns a new DraftRepository instance using MongoDB.
func NewMongoDraftRepo(dbName string) DraftRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoDraftRepo{
		coll: db.Collection("shipment_drafts"),
	}
}
