// Package adapters wires modules together across their port interfaces,
// keeping the modules themselves free of direct cross-module imports.
package adapters

import (
	"context"

	contractorsvc "berhub_backend/internal/contractors/service"
	"berhub_backend/internal/jobs/domain"
	jobsvc "berhub_backend/internal/jobs/service"

	"github.com/google/uuid"
)

// ContractorPreferenceReader adapts the contractors service for the jobs
// module's eligibility filter, satisfying service.PreferenceReader.
type ContractorPreferenceReader struct {
	svc *contractorsvc.Service
}

// NewContractorPreferenceReader creates a new preference reader adapter.
func NewContractorPreferenceReader(svc *contractorsvc.Service) *ContractorPreferenceReader {
	return &ContractorPreferenceReader{svc: svc}
}

// GetPreference returns the contractor's eligibility profile. Contractors
// without a saved profile get the permissive default from the contractors
// service, so a fresh account sees the full open pool.
func (a *ContractorPreferenceReader) GetPreference(ctx context.Context, contractorID uuid.UUID) (domain.ContractorPreference, error) {
	pref, err := a.svc.GetPreferences(ctx, contractorID)
	if err != nil {
		return domain.ContractorPreference{}, err
	}

	return domain.ContractorPreference{
		ContractorID:    pref.ContractorID,
		ServiceCounties: pref.ServiceCounties,
		Specialty:       domain.Specialty(pref.Specialty),
		ContactPhone:    pref.ContactPhone,
		UpdatedAt:       pref.UpdatedAt,
	}, nil
}

// Compile-time check that the adapter implements the jobs port.
var _ jobsvc.PreferenceReader = (*ContractorPreferenceReader)(nil)
