// Package profile holds the user's onboarding data and uploaded report
// history, and persists both through the local store with size-aware
// degradation when the quota is tight.
package profile

import (
	"time"

	"r42copilot/insight"
)

// SchemaVersion is stamped into every persisted blob so future layout
// changes can detect and migrate old data.
const SchemaVersion = 1

// DiagnosticSelection records which platforms the user said they have
// reports from during onboarding.
type DiagnosticSelection struct {
	JonaHealth bool `json:"jonaHealth"`
	NeuroAge   bool `json:"neuroAge"`
	Iollo      bool `json:"iollo"`
}

// UserProfile is everything collected during onboarding.
type UserProfile struct {
	FirstName            string              `json:"firstName"`
	LastName             string              `json:"lastName"`
	Email                string              `json:"email"`
	Age                  string              `json:"age"`
	Sex                  string              `json:"sex"`
	Height               string              `json:"height"`
	Weight               string              `json:"weight"`
	HealthGoals          string              `json:"healthGoals"`
	CurrentSupplements   string              `json:"currentSupplements"`
	Diagnostics          DiagnosticSelection `json:"diagnosticData"`
	AppleHealthConnected bool                `json:"appleHealthConnected"`
	ResearchConsent      bool                `json:"researchConsent"`
}

// UploadedReport is one ingested PDF. Content carries the extracted text and
// may be truncated or dropped entirely by the persistence passes; Insights
// survive every pass.
type UploadedReport struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Platform   string            `json:"platform"`
	UploadedAt time.Time         `json:"uploadDate"`
	Content    string            `json:"content,omitempty"`
	Insights   *insight.Insights `json:"insights,omitempty"`
}

// StoredBlob is the persisted shape of the whole store.
type StoredBlob struct {
	SchemaVersion int              `json:"schemaVersion"`
	Profile       UserProfile      `json:"profile"`
	Reports       []UploadedReport `json:"uploadedPDFs"`
}

// FullName returns the user's display name, falling back to "User" when the
// profile has no name yet.
func (p UserProfile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return "User"
	}
}
