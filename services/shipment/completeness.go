package shipment

import (
	"fmt"
	"math"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
)

// Evaluate maps the accumulated sections to a per-section completeness
// verdict. It is a pure function of its input: no I/O, no caching, no hidden
// state. The result gates UI navigation affordances only and never blocks a
// forced jump.
func Evaluate(sections models.ShipmentSections) map[models.Section]models.SectionStatus {
	return map[models.Section]models.SectionStatus{
		models.SectionInfo:        evaluateInfo(sections.Info),
		models.SectionOrigin:      evaluateAddress(sections.Origin, false),
		models.SectionDestination: evaluateAddress(sections.Destination, true),
		models.SectionPackages:    evaluatePackages(sections.Packages),
		models.SectionRate:        evaluateRate(sections.Rate),
	}
}

func evaluateInfo(info models.InfoSection) models.SectionStatus {
	var missing []string
	if info.ShipmentType == "" {
		missing = append(missing, "shipmentType")
	}
	if info.ReferenceNumber == "" {
		missing = append(missing, "referenceNumber")
	}
	if info.PickupDate == "" {
		missing = append(missing, "pickupDate")
	}
	return verdict(missing)
}

func evaluateAddress(addr models.AddressSection, requireCustomer bool) models.SectionStatus {
	var missing []string
	if requireCustomer && addr.CustomerID == "" {
		missing = append(missing, "customerId")
	}
	required := []struct {
		name  string
		value string
	}{
		{"company", addr.Company},
		{"contactName", addr.ContactName},
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"postalCode", addr.PostalCode},
		{"country", addr.Country},
		{"phone", addr.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return verdict(missing)
}

// evaluatePackages requires at least one entry and every entry to satisfy its
// own required-field set. A single invalid entry marks the whole section
// incomplete, reporting the entry index with each missing field name.
func evaluatePackages(packages []models.PackageItem) models.SectionStatus {
	if len(packages) == 0 {
		return verdict([]string{"packages"})
	}
	var missing []string
	for i, pkg := range packages {
		if pkg.Description == "" {
			missing = append(missing, entryField(i, "description"))
		}
		if pkg.Quantity <= 0 {
			missing = append(missing, entryField(i, "quantity"))
		}
		if !positiveFinite(pkg.Weight) {
			missing = append(missing, entryField(i, "weight"))
		}
		if !positiveFinite(pkg.Length) {
			missing = append(missing, entryField(i, "length"))
		}
		if !positiveFinite(pkg.Width) {
			missing = append(missing, entryField(i, "width"))
		}
		if !positiveFinite(pkg.Height) {
			missing = append(missing, entryField(i, "height"))
		}
	}
	return verdict(missing)
}

func evaluateRate(binding models.RateBinding) models.SectionStatus {
	if binding.Bound() {
		return models.SectionStatus{Complete: true}
	}
	return verdict([]string{"rateDocumentId"})
}

func entryField(index int, field string) string {
	return fmt.Sprintf("packages[%d].%s", index, field)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func verdict(missing []string) models.SectionStatus {
	return models.SectionStatus{
		Complete: len(missing) == 0,
		Missing:  missing,
	}
}
