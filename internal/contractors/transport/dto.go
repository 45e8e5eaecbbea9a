// Package transport defines the request/response DTOs for the contractors
// module.
package transport

import (
	"time"

	"berhub_backend/internal/contractors/repository"
)

// UpsertPreferencesRequest replaces the contractor's eligibility profile.
// An empty county list means "serve everywhere".
type UpsertPreferencesRequest struct {
	ServiceCounties []string `json:"serviceCounties" validate:"dive,county"`
	Specialty       string   `json:"specialty" validate:"required,oneof=domestic commercial both"`
	ContactPhone    string   `json:"contactPhone" validate:"omitempty,max=30"`
	ContactEmail    string   `json:"contactEmail" validate:"omitempty,email"`
}

// PreferenceResponse is the API representation of a contractor's preferences.
type PreferenceResponse struct {
	ServiceCounties []string  `json:"serviceCounties"`
	Specialty       string    `json:"specialty"`
	ContactPhone    string    `json:"contactPhone"`
	ContactEmail    string    `json:"contactEmail"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromPreference maps a stored preference onto its API representation.
func FromPreference(pref repository.Preference) PreferenceResponse {
	counties := pref.ServiceCounties
	if counties == nil {
		counties = []string{}
	}
	return PreferenceResponse{
		ServiceCounties: counties,
		Specialty:       pref.Specialty,
		ContactPhone:    pref.ContactPhone,
		ContactEmail:    pref.ContactEmail,
		UpdatedAt:       pref.UpdatedAt,
	}
}
