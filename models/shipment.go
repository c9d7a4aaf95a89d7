package models

import "time"

// DraftStatus tracks the lifecycle of a shipment draft. Transitions only move
// forward: draft -> processing -> booked | error. Nothing ever reverts a
// draft out of processing, and once the status leaves draft the record is
// never deleted.
type DraftStatus string

const (
	StatusDraft      DraftStatus = "draft"
	StatusProcessing DraftStatus = "processing"
	StatusBooked     DraftStatus = "booked"
	StatusError      DraftStatus = "error"
)

// Owner identifies who created a draft. Fixed at creation and checked on
// resume.
type Owner struct {
	CompanyID string `bson:"companyId" json:"companyId"`
	UserID    string `bson:"userId" json:"userId"`
}

// ShipmentDraft is the unit of work: a resumable, section-by-section shipment
// record keyed by an opaque id.
type ShipmentDraft struct {
	Key            string           `bson:"key" json:"key"`
	ShipmentID     string           `bson:"shipmentId" json:"shipmentId"`
	Status         DraftStatus      `bson:"status" json:"status"`
	Owner          Owner            `bson:"owner" json:"owner"`
	Sections       ShipmentSections `bson:"sections" json:"sections"`
	ConfirmationID string           `bson:"confirmationId,omitempty" json:"confirmationId,omitempty"`
	DocumentStatus string           `bson:"documentStatus,omitempty" json:"documentStatus,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Editable reports whether the draft may still be mutated section-by-section.
func (d *ShipmentDraft) Editable() bool {
	return d.Status == StatusDraft
}
