package models

// Section names the independently persisted parts of a shipment draft.
type Section string

const (
	SectionInfo        Section = "info"
	SectionOrigin      Section = "origin"
	SectionDestination Section = "destination"
	SectionPackages    Section = "packages"
	SectionRate        Section = "rate"
)

// CanonicalSections lists every section a draft carries, in step order.
var CanonicalSections = []Section{
	SectionInfo,
	SectionOrigin,
	SectionDestination,
	SectionPackages,
	SectionRate,
}

// ShipmentSections is the full section payload of a draft. Every field is
// always present, even when empty; downstream consumers index sections
// unconditionally.
type ShipmentSections struct {
	Info        InfoSection    `bson:"info" json:"info"`
	Origin      AddressSection `bson:"origin" json:"origin"`
	Destination AddressSection `bson:"destination" json:"destination"`
	Packages    []PackageItem  `bson:"packages" json:"packages"`
	Rate        RateBinding    `bson:"rate" json:"rate"`
}

// InfoSection holds shipment-level details collected on the first step.
type InfoSection struct {
	ShipmentType    string `bson:"shipmentType,omitempty" json:"shipmentType,omitempty"`
	ReferenceNumber string `bson:"referenceNumber,omitempty" json:"referenceNumber,omitempty"`
	PickupDate      string `bson:"pickupDate,omitempty" json:"pickupDate,omitempty"`
	EarliestPickup  string `bson:"earliestPickup,omitempty" json:"earliestPickup,omitempty"`
	LatestPickup    string `bson:"latestPickup,omitempty" json:"latestPickup,omitempty"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// AddressSection is shared by the origin and destination steps. Destination
// additionally binds a customer reference.
type AddressSection struct {
	CustomerID          string `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Company             string `bson:"company,omitempty" json:"company,omitempty"`
	ContactName         string `bson:"contactName,omitempty" json:"contactName,omitempty"`
	Street              string `bson:"street,omitempty" json:"street,omitempty"`
	Street2             string `bson:"street2,omitempty" json:"street2,omitempty"`
	City                string `bson:"city,omitempty" json:"city,omitempty"`
	State               string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode          string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country             string `bson:"country,omitempty" json:"country,omitempty"`
	Phone               string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email               string `bson:"email,omitempty" json:"email,omitempty"`
	SpecialInstructions string `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
}

// PackageItem is one entry of the ordered packages section.
type PackageItem struct {
	Description   string  `bson:"description,omitempty" json:"description,omitempty"`
	Quantity      int     `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Weight        float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Length        float64 `bson:"length,omitempty" json:"length,omitempty"`
	Width         float64 `bson:"width,omitempty" json:"width,omitempty"`
	Height        float64 `bson:"height,omitempty" json:"height,omitempty"`
	FreightClass  string  `bson:"freightClass,omitempty" json:"freightClass,omitempty"`
	DeclaredValue float64 `bson:"declaredValue,omitempty" json:"declaredValue,omitempty"`
}

// SectionStatus is the derived completeness verdict for one section. It is
// recomputed on demand and never persisted.
type SectionStatus struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
}
