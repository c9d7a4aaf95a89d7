package models

// DocumentCapability says which follow-up document a carrier requires after
// its reservation succeeds.
type DocumentCapability string

const (
	CapabilityNone  DocumentCapability = "none"
	CapabilityLabel DocumentCapability = "label"
	CapabilityBOL   DocumentCapability = "bol"
)

// CarrierInfo is enumerated carrier reference data. The booking orchestrator
// resolves a carrier's capability from this table once, instead of matching
// free-text names at orchestration time.
type CarrierInfo struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Mode       string             `json:"mode"`
	Capability DocumentCapability `json:"capability"`
}
