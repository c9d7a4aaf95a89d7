package models

import "time"

// RateFormat tags which historical payload shape a rate snapshot arrived in.
type RateFormat string

const (
	// RateFormatStructured carries a charge breakdown.
	RateFormatStructured RateFormat = "structured"
	// RateFormatLegacy carries flattened charge totals only.
	RateFormatLegacy RateFormat = "legacy"
)

// RateBinding ties a draft to a chosen carrier rate. A draft is
// booking-eligible when either a persisted rate document id or a transient
// snapshot is present. A snapshot-only binding gets persisted by the booking
// orchestrator before any external call is made.
type RateBinding struct {
	RateDocumentID string        `bson:"rateDocumentId,omitempty" json:"rateDocumentId,omitempty"`
	Snapshot       *RateSnapshot `bson:"snapshot,omitempty" json:"snapshot,omitempty"`
}

// Bound reports whether the binding makes the draft booking-eligible.
func (b RateBinding) Bound() bool {
	return b.RateDocumentID != "" || b.Snapshot != nil
}

// RateSnapshot is a rate as selected in the UI, in either historical shape.
// Structured snapshots populate Charges; legacy snapshots populate the
// flattened charge fields instead.
type RateSnapshot struct {
	Format      RateFormat `bson:"format" json:"format"`
	Carrier     string     `bson:"carrier" json:"carrier"`
	Service     string     `bson:"service,omitempty" json:"service,omitempty"`
	Currency    string     `bson:"currency,omitempty" json:"currency,omitempty"`
	TotalCharge float64    `bson:"totalCharge,omitempty" json:"totalCharge,omitempty"`
	TransitDays int        `bson:"transitDays,omitempty" json:"transitDays,omitempty"`

	// Structured shape.
	Charges []RateCharge `bson:"charges,omitempty" json:"charges,omitempty"`

	// Legacy flattened shape.
	FreightCharge     float64 `bson:"freightCharge,omitempty" json:"freightCharge,omitempty"`
	FuelSurcharge     float64 `bson:"fuelSurcharge,omitempty" json:"fuelSurcharge,omitempty"`
	AccessorialCharge float64 `bson:"accessorialCharge,omitempty" json:"accessorialCharge,omitempty"`
}

// RateCharge is one line of a structured charge breakdown.
type RateCharge struct {
	Code   string  `bson:"code" json:"code"`
	Name   string  `bson:"name,omitempty" json:"name,omitempty"`
	Amount float64 `bson:"amount" json:"amount"`
}

// RateRecord is the canonical persisted rate shape the orchestrator consumes,
// produced by normalizing either snapshot format.
type RateRecord struct {
	ID           string       `bson:"id" json:"id"`
	DraftKey     string       `bson:"draftKey" json:"draftKey"`
	Carrier      string       `bson:"carrier" json:"carrier"`
	Service      string       `bson:"service,omitempty" json:"service,omitempty"`
	Currency     string       `bson:"currency" json:"currency"`
	TotalCharge  float64      `bson:"totalCharge" json:"totalCharge"`
	TransitDays  int          `bson:"transitDays,omitempty" json:"transitDays,omitempty"`
	Charges      []RateCharge `bson:"charges" json:"charges"`
	SourceFormat RateFormat   `bson:"sourceFormat" json:"sourceFormat"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
}

// LegacyRateRecord is the flattened companion document written alongside each
// RateRecord for consumers that still read the old shape. Both records point
// at the same generated rate id.
type LegacyRateRecord struct {
	RateID            string    `bson:"rateId" json:"rateId"`
	DraftKey          string    `bson:"draftKey" json:"draftKey"`
	Carrier           string    `bson:"carrier" json:"carrier"`
	Service           string    `bson:"service,omitempty" json:"service,omitempty"`
	Currency          string    `bson:"currency" json:"currency"`
	FreightCharge     float64   `bson:"freightCharge" json:"freightCharge"`
	FuelSurcharge     float64   `bson:"fuelSurcharge" json:"fuelSurcharge"`
	AccessorialCharge float64   `bson:"accessorialCharge" json:"accessorialCharge"`
	TotalCharge       float64   `bson:"totalCharge" json:"totalCharge"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}
