package shipment

import (
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
)

// Accumulator is the in-memory authoritative copy of a draft's sections while
// an operator edits it. It is constructor-injected state owned by the session
// service, never a package-level singleton.
//
// Invariant: after Reset or any Update, every canonical section is present
// with a well-typed value. Downstream consumers index sections
// unconditionally and must never see a missing key.
type Accumulator struct {
	sections models.ShipmentSections
}

// NewAccumulator returns an accumulator holding the canonical empty shape.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.Reset()
	return a
}

// Reset restores the full default shape: every section present with its
// empty-but-well-typed default.
func (a *Accumulator) Reset() {
	a.sections = defaultSections()
}

func defaultSections() models.ShipmentSections {
	return models.ShipmentSections{
		Info:        models.InfoSection{},
		Origin:      models.AddressSection{},
		Destination: models.AddressSection{},
		Packages:    []models.PackageItem{},
		Rate:        models.RateBinding{},
	}
}

// Sections returns a copy of the accumulated state.
func (a *Accumulator) Sections() models.ShipmentSections {
	out := a.sections
	out.Packages = append([]models.PackageItem{}, a.sections.Packages...)
	return out
}

// Restore replaces the accumulated state wholesale, normalizing a nil
// packages slice so the canonical-shape invariant holds.
func (a *Accumulator) Restore(sections models.ShipmentSections) {
	if sections.Packages == nil {
		sections.Packages = []models.PackageItem{}
	}
	a.sections = sections
}

// Update merges a partial payload into the named section. Object-shaped
// sections (info, origin, destination) shallow-merge: only non-zero incoming
// fields overwrite. The ordered packages section and the rate binding are
// replaced wholesale.
func (a *Accumulator) Update(section models.Section, payload any) error {
	switch section {
	case models.SectionInfo:
		p, ok := payload.(models.InfoSection)
		if !ok {
			return &SectionPayloadError{Section: section, Reason: "expected info payload"}
		}
		mergeInfo(&a.sections.Info, p)
	case models.SectionOrigin:
		p, ok := payload.(models.AddressSection)
		if !ok {
			return &SectionPayloadError{Section: section, Reason: "expected address payload"}
		}
		mergeAddress(&a.sections.Origin, p)
	case models.SectionDestination:
		p, ok := payload.(models.AddressSection)
		if !ok {
			return &SectionPayloadError{Section: section, Reason: "expected address payload"}
		}
		mergeAddress(&a.sections.Destination, p)
	case models.SectionPackages:
		p, ok := payload.([]models.PackageItem)
		if !ok {
			return &SectionPayloadError{Section: section, Reason: "expected package list payload"}
		}
		if p == nil {
			p = []models.PackageItem{}
		}
		a.sections.Packages = append([]models.PackageItem{}, p...)
	case models.SectionRate:
		p, ok := payload.(models.RateBinding)
		if !ok {
			return &SectionPayloadError{Section: section, Reason: "expected rate binding payload"}
		}
		a.sections.Rate = p
	default:
		return &SectionPayloadError{Section: section, Reason: "unknown section"}
	}
	return nil
}

func mergeInfo(dst *models.InfoSection, src models.InfoSection) {
	if src.ShipmentType != "" {
		dst.ShipmentType = src.ShipmentType
	}
	if src.ReferenceNumber != "" {
		dst.ReferenceNumber = src.ReferenceNumber
	}
	if src.PickupDate != "" {
		dst.PickupDate = src.PickupDate
	}
	if src.EarliestPickup != "" {
		dst.EarliestPickup = src.EarliestPickup
	}
	if src.LatestPickup != "" {
		dst.LatestPickup = src.LatestPickup
	}
	if src.Notes != "" {
		dst.Notes = src.Notes
	}
}

func mergeAddress(dst *models.AddressSection, src models.AddressSection) {
	if src.CustomerID != "" {
		dst.CustomerID = src.CustomerID
	}
	if src.Company != "" {
		dst.Company = src.Company
	}
	if src.ContactName != "" {
		dst.ContactName = src.ContactName
	}
	if src.Street != "" {
		dst.Street = src.Street
	}
	if src.Street2 != "" {
		dst.Street2 = src.Street2
	}
	if src.City != "" {
		dst.City = src.City
	}
	if src.State != "" {
		dst.State = src.State
	}
	if src.PostalCode != "" {
		dst.PostalCode = src.PostalCode
	}
	if src.Country != "" {
		dst.Country = src.Country
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.SpecialInstructions != "" {
		dst.SpecialInstructions = src.SpecialInstructions
	}
}
