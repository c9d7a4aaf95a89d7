package draftRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new draft and returns its key.
func (r *mongoDraftRepo) Create(ctx context.Context, draft *models.ShipmentDraft) (string, error) {
	if draft.Key == "" {
		draft.Key = uuid.New().String()
	}
	if draft.Status == "" {
		draft.Status = models.StatusDraft
	}
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("failed to insert shipment draft: %w", err)
	}
	return draft.Key, nil
}

// GetByKey returns a draft by its opaque key.
func (r *mongoDraftRepo) GetByKey(ctx context.Context, key string) (*models.ShipmentDraft, error) {
	var draft models.ShipmentDraft
	err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// PatchSection updates exactly one named section plus the last-modified
// marker. Other sections are never touched, so section writes are
// independently idempotent.
func (r *mongoDraftRepo) PatchSection(ctx context.Context, key string, section models.Section, payload any) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{
			"sections." + string(section): payload,
			"updatedAt":                   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to patch section %s: %w", section, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves the draft's lifecycle status.
func (r *mongoDraftRepo) SetStatus(ctx context.Context, key string, status models.DraftStatus) error {
	return r.setFields(ctx, key, bson.M{"status": status})
}

// SetShipmentID replaces the human-readable shipment identifier.
func (r *mongoDraftRepo) SetShipmentID(ctx context.Context, key, shipmentID string) error {
	return r.setFields(ctx, key, bson.M{"shipmentId": shipmentID})
}

// SetConfirmation stores the external confirmation id and the advisory
// document status reached during booking.
func (r *mongoDraftRepo) SetConfirmation(ctx context.Context, key, confirmationID, documentStatus string) error {
	return r.setFields(ctx, key, bson.M{
		"confirmationId": confirmationID,
		"documentStatus": documentStatus,
	})
}

// SetDocumentStatus updates only the advisory document status.
func (r *mongoDraftRepo) SetDocumentStatus(ctx context.Context, key, documentStatus string) error {
	return r.setFields(ctx, key, bson.M{"documentStatus": documentStatus})
}

func (r *mongoDraftRepo) setFields(ctx context.Context, key string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
