package service

import (
	"context"
	"testing"

	"berhub_backend/internal/contractors/repository"
	"berhub_backend/internal/contractors/transport"
	"berhub_backend/platform/apperr"
	"berhub_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	prefs map[uuid.UUID]repository.Preference
}

func newFakeStore() *fakeStore {
	return &fakeStore{prefs: make(map[uuid.UUID]repository.Preference)}
}

func (f *fakeStore) Get(_ context.Context, contractorID uuid.UUID) (repository.Preference, error) {
	pref, ok := f.prefs[contractorID]
	if !ok {
		return repository.Preference{}, apperr.NotFound("contractor preferences not found")
	}
	return pref, nil
}

func (f *fakeStore) Upsert(_ context.Context, pref repository.Preference) (repository.Preference, error) {
	f.prefs[pref.ContractorID] = pref
	return pref, nil
}

var _ Store = (*fakeStore)(nil)

func TestGetPreferencesDefaultsToPermissive(t *testing.T) {
	svc := New(newFakeStore(), validator.New())
	contractorID := uuid.New()

	pref, err := svc.GetPreferences(context.Background(), contractorID)
	require.NoError(t, err)
	assert.Equal(t, contractorID, pref.ContractorID)
	assert.Empty(t, pref.ServiceCounties)
	assert.Equal(t, "both", pref.Specialty)
}

func TestUpsertPreferencesNormalizes(t *testing.T) {
	store := newFakeStore()
	svc := New(store, validator.New())
	contractorID := uuid.New()

	pref, err := svc.UpsertPreferences(context.Background(), contractorID, transport.UpsertPreferencesRequest{
		ServiceCounties: []string{"Galway", "  clare ", "galway"},
		Specialty:       "domestic",
		ContactPhone:    "086 123 4567",
		ContactEmail:    " Assessor@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"galway", "clare"}, pref.ServiceCounties)
	assert.Equal(t, "+353861234567", pref.ContactPhone)
	assert.Equal(t, "assessor@example.com", pref.ContactEmail)

	stored, err := svc.GetPreferences(context.Background(), contractorID)
	require.NoError(t, err)
	assert.Equal(t, pref.ServiceCounties, stored.ServiceCounties)
}

func TestUpsertPreferencesRejectsUnknownCounty(t *testing.T) {
	svc := New(newFakeStore(), validator.New())

	_, err := svc.UpsertPreferences(context.Background(), uuid.New(), transport.UpsertPreferencesRequest{
		ServiceCounties: []string{"narnia"},
		Specialty:       "both",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpsertPreferencesRejectsUnknownSpecialty(t *testing.T) {
	svc := New(newFakeStore(), validator.New())

	_, err := svc.UpsertPreferences(context.Background(), uuid.New(), transport.UpsertPreferencesRequest{
		Specialty: "industrial",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
