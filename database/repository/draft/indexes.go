package draftRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the shipment_drafts collection.
func (r *mongoDraftRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on the opaque draft key
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		// Compound index for the humanId duplicate-detection lookup
		{
			Keys:    bson.D{{Key: "owner.companyId", Value: 1}, {Key: "shipmentId", Value: 1}},
			Options: options.Index().SetName("company_shipment_id_idx"),
		},
		// Listing views filter by owner and status
		{
			Keys:    bson.D{{Key: "owner.companyId", Value: 1}, {Key: "status", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("company_status_updated_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create shipment draft indexes: %w", err)
	}
	return nil
}
