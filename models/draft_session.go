package models

// DraftSession holds an operator's in-flight editing state between requests.
// Cached in Redis; the authoritative draft record lives in Mongo.
type DraftSession struct {
	SessionID string           `json:"sessionId"`
	DraftKey  string           `json:"draftKey"`
	CompanyID string           `json:"companyId"`
	UserID    string           `json:"userId"`
	Step      int              `json:"step"`
	Sections  ShipmentSections `json:"sections"`
	Attempt   *BookingAttempt  `json:"attempt,omitempty"`
}

// SessionState is the response shape returned to the UI after every session
// mutation: the current draft view plus derived completeness.
type SessionState struct {
	SessionID    string                    `json:"sessionId"`
	DraftKey     string                    `json:"draftKey"`
	ShipmentID   string                    `json:"shipmentId"`
	Status       DraftStatus               `json:"status"`
	Step         int                       `json:"step"`
	StepName     string                    `json:"stepName"`
	Sections     ShipmentSections          `json:"sections"`
	Completeness map[Section]SectionStatus `json:"completeness"`
	Attempt      *BookingAttempt           `json:"attempt,omitempty"`
	Warning      string                    `json:"warning,omitempty"`
}
