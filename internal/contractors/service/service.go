// Package service holds the contractors module's business logic.
package service

import (
	"context"
	"strings"

	"berhub_backend/internal/contractors/repository"
	"berhub_backend/internal/contractors/transport"
	"berhub_backend/platform/apperr"
	"berhub_backend/platform/phone"
	"berhub_backend/platform/validator"

	"github.com/google/uuid"
)

// Store is the storage contract the contractors service depends on.
type Store interface {
	Get(ctx context.Context, contractorID uuid.UUID) (repository.Preference, error)
	Upsert(ctx context.Context, pref repository.Preference) (repository.Preference, error)
}

// Service implements contractor profile management.
type Service struct {
	store    Store
	validate *validator.Validator
}

// New creates the contractors service.
func New(store Store, validate *validator.Validator) *Service {
	return &Service{store: store, validate: validate}
}

// GetPreferences returns the contractor's stored preferences. A contractor
// who never saved a profile gets the permissive default: all counties, both
// specialties.
func (s *Service) GetPreferences(ctx context.Context, contractorID uuid.UUID) (repository.Preference, error) {
	pref, err := s.store.Get(ctx, contractorID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Preference{
				ContractorID: contractorID,
				Specialty:    "both",
			}, nil
		}
		return repository.Preference{}, err
	}
	return pref, nil
}

// UpsertPreferences replaces the contractor's eligibility profile. County
// names are stored lowercased so the eligibility filter matches them
// case-insensitively.
func (s *Service) UpsertPreferences(ctx context.Context, contractorID uuid.UUID, req transport.UpsertPreferencesRequest) (repository.Preference, error) {
	if err := s.validate.Struct(req); err != nil {
		return repository.Preference{}, apperr.Validation(err.Error())
	}

	counties := make([]string, 0, len(req.ServiceCounties))
	seen := make(map[string]bool, len(req.ServiceCounties))
	for _, county := range req.ServiceCounties {
		normalized := strings.ToLower(strings.TrimSpace(county))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		counties = append(counties, normalized)
	}

	return s.store.Upsert(ctx, repository.Preference{
		ContractorID:    contractorID,
		ServiceCounties: counties,
		Specialty:       req.Specialty,
		ContactPhone:    phone.Normalize(req.ContactPhone),
		ContactEmail:    strings.ToLower(strings.TrimSpace(req.ContactEmail)),
	})
}
