package rateRepo

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

// Save inserts the canonical rate record and its legacy-shaped companion.
// Both documents carry the same generated rate id.
func (r *mongoRateRepo) Save(ctx context.Context, record *models.RateRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to insert rate record: %w", err)
	}

	legacy := flattenRecord(record)
	if _, err := r.legacyColl.InsertOne(ctx, legacy); err != nil {
		return "", fmt.Errorf("failed to insert legacy rate record: %w", err)
	}

	return record.ID, nil
}

// GetByID returns the canonical rate record for the given id.
func (r *mongoRateRepo) GetByID(ctx context.Context, id string) (*models.RateRecord, error) {
	var record models.RateRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetByDraftKey returns the most recently saved rate for a draft.
func (r *mongoRateRepo) GetByDraftKey(ctx context.Context, draftKey string) (*models.RateRecord, error) {
	opts := optionsSortByCreatedDesc()
	var record models.RateRecord
	err := r.coll.FindOne(ctx, bson.M{"draftKey": draftKey}, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// flattenRecord maps the structured charge breakdown onto the flattened
// totals historical consumers expect.
func flattenRecord(record *models.RateRecord) models.LegacyRateRecord {
	legacy := models.LegacyRateRecord{
		RateID:      record.ID,
		DraftKey:    record.DraftKey,
		Carrier:     record.Carrier,
		Service:     record.Service,
		Currency:    record.Currency,
		TotalCharge: record.TotalCharge,
		CreatedAt:   record.CreatedAt,
	}
	for _, ch := range record.Charges {
		switch ch.Code {
		case "FRT":
			legacy.FreightCharge += ch.Amount
		case "FUE":
			legacy.FuelSurcharge += ch.Amount
		default:
			legacy.AccessorialCharge += ch.Amount
		}
	}
	return legacy
}
