package rateRepo

import (
	"context"
	"errors"

	"github.com/tmurray-at-tygershark/solushipX-sub005/database"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no rate record exists for the given id.
var ErrNotFound = errors.New("rate record not found")

// RateRepository persists selected carrier rates. Every save writes two
// documents: the canonical structured record and a flattened legacy-shaped
// companion, both carrying the same rate id.
type RateRepository interface {
	Save(ctx context.Context, record *models.RateRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.RateRecord, error)
	GetByDraftKey(ctx context.Context, draftKey string) (*models.RateRecord, error)
}

type mongoRateRepo struct {
	coll       *mongo.Collection
	legacyColl *mongo.Collection
}

// NewMongoRateRepo returns a new RateRepository instance using MongoDB.
func NewMongoRateRepo(dbName string) RateRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoRateRepo{
		coll:       db.Collection("shipment_rates"),
		legacyColl: db.Collection("shipment_rates_legacy"),
	}
}
