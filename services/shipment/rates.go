package shipment

import (
	"fmt"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
)

// NormalizeRate converts either historical snapshot shape into the canonical
// RateRecord the orchestrator consumes. Legacy snapshots get their flattened
// totals lifted into a synthesized charge breakdown; structured snapshots get
// their total recomputed when absent.
func NormalizeRate(draftKey string, snap *models.RateSnapshot) (*models.RateRecord, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil rate snapshot")
	}
	if snap.Carrier == "" {
		return nil, fmt.Errorf("rate snapshot has no carrier")
	}

	record := &models.RateRecord{
		DraftKey:    draftKey,
		Carrier:     snap.Carrier,
		Service:     snap.Service,
		Currency:    snap.Currency,
		TransitDays: snap.TransitDays,
	}
	if record.Currency == "" {
		record.Currency = "CAD"
	}

	switch snap.Format {
	case models.RateFormatLegacy:
		record.SourceFormat = models.RateFormatLegacy
		record.Charges = synthesizeCharges(snap)
		record.TotalCharge = snap.TotalCharge
		if record.TotalCharge == 0 {
			record.TotalCharge = snap.FreightCharge + snap.FuelSurcharge + snap.AccessorialCharge
		}
	case models.RateFormatStructured, "":
		// Unmarked snapshots predate the format tag; treat them as
		// structured when a breakdown is present, legacy otherwise.
		if len(snap.Charges) == 0 && (snap.FreightCharge > 0 || snap.FuelSurcharge > 0 || snap.AccessorialCharge > 0) {
			record.SourceFormat = models.RateFormatLegacy
			record.Charges = synthesizeCharges(snap)
			record.TotalCharge = snap.TotalCharge
			if record.TotalCharge == 0 {
				record.TotalCharge = snap.FreightCharge + snap.FuelSurcharge + snap.AccessorialCharge
			}
			break
		}
		record.SourceFormat = models.RateFormatStructured
		record.Charges = append([]models.RateCharge{}, snap.Charges...)
		record.TotalCharge = snap.TotalCharge
		if record.TotalCharge == 0 {
			for _, ch := range record.Charges {
				record.TotalCharge += ch.Amount
			}
		}
	default:
		return nil, fmt.Errorf("unknown rate format %q", snap.Format)
	}

	if record.TotalCharge <= 0 {
		return nil, fmt.Errorf("rate snapshot has no charges")
	}
	return record, nil
}

func synthesizeCharges(snap *models.RateSnapshot) []models.RateCharge {
	charges := []models.RateCharge{}
	if snap.FreightCharge > 0 {
		charges = append(charges, models.RateCharge{Code: "FRT", Name: "Freight", Amount: snap.FreightCharge})
	}
	if snap.FuelSurcharge > 0 {
		charges = append(charges, models.RateCharge{Code: "FUE", Name: "Fuel Surcharge", Amount: snap.FuelSurcharge})
	}
	if snap.AccessorialCharge > 0 {
		charges = append(charges, models.RateCharge{Code: "ACC", Name: "Accessorials", Amount: snap.AccessorialCharge})
	}
	return charges
}
