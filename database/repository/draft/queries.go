package draftRepo

import (
	"context"
	"errors"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindByShipmentID looks a draft up by its human-readable id within a
// company, for duplicate detection.
func (r *mongoDraftRepo) FindByShipmentID(ctx context.Context, companyID, shipmentID string) (*models.ShipmentDraft, error) {
	var draft models.ShipmentDraft
	err := r.coll.FindOne(ctx, bson.M{
		"owner.companyId": companyID,
		"shipmentId":      shipmentID,
	}).Decode(&draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// ExistsShipmentID reports whether any draft or finalized shipment in the
// company already uses the candidate shipment id.
func (r *mongoDraftRepo) ExistsShipmentID(ctx context.Context, companyID, shipmentID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"owner.companyId": companyID,
		"shipmentId":      shipmentID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
