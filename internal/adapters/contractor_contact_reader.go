package adapters

import (
	"context"
	"fmt"

	contractorsvc "berhub_backend/internal/contractors/service"
	"berhub_backend/internal/notification"

	"github.com/google/uuid"
)

// ContractorContactReader adapts the contractors service for the
// notification module, satisfying notification.ContractorContactReader.
type ContractorContactReader struct {
	svc *contractorsvc.Service
}

// NewContractorContactReader creates a new contact reader adapter.
func NewContractorContactReader(svc *contractorsvc.Service) *ContractorContactReader {
	return &ContractorContactReader{svc: svc}
}

// GetContactEmail returns the contractor's notification address. A contractor
// who never saved a profile has no address; that is an error so the caller
// can log the skip.
func (a *ContractorContactReader) GetContactEmail(ctx context.Context, contractorID uuid.UUID) (string, error) {
	pref, err := a.svc.GetPreferences(ctx, contractorID)
	if err != nil {
		return "", err
	}
	if pref.ContactEmail == "" {
		return "", fmt.Errorf("contractor %s has no contact email", contractorID)
	}
	return pref.ContactEmail, nil
}

// Compile-time check that the adapter implements the notification port.
var _ notification.ContractorContactReader = (*ContractorContactReader)(nil)
