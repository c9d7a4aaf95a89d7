package shipment

import (
	"strings"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
)

// carrierMap is the enumerated carrier reference data. Document capability is
// resolved from here once per booking, never re-derived from free-text name
// matching at orchestration time.
var carrierMap = map[string]models.CarrierInfo{
	"ESHIPPLUS": {
		ID:         "ESHIPPLUS",
		Name:       "eShipPlus",
		Mode:       "freight",
		Capability: models.CapabilityBOL,
	},
	"CANPAR": {
		ID:         "CANPAR",
		Name:       "Canpar Express",
		Mode:       "courier",
		Capability: models.CapabilityLabel,
	},
	"POLARIS": {
		ID:         "POLARIS",
		Name:       "Polaris Transportation",
		Mode:       "freight",
		Capability: models.CapabilityNone,
	},
	"WARD": {
		ID:         "WARD",
		Name:       "Ward Trucking",
		Mode:       "freight",
		Capability: models.CapabilityNone,
	},
}

// LookupCarrier resolves carrier reference data by id or display name.
// Unknown carriers get CapabilityNone: a reservation with no follow-up
// document call.
func LookupCarrier(name string) models.CarrierInfo {
	key := strings.ToUpper(strings.TrimSpace(name))
	if info, ok := carrierMap[key]; ok {
		return info
	}
	for _, info := range carrierMap {
		if strings.EqualFold(info.Name, strings.TrimSpace(name)) {
			return info
		}
	}
	return models.CarrierInfo{
		ID:         key,
		Name:       strings.TrimSpace(name),
		Capability: models.CapabilityNone,
	}
}
