// Package repository provides database access for contractor preferences.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"berhub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Preference is a contractor's eligibility profile: the counties they serve
// and the kind of assessments they take on.
type Preference struct {
	ContractorID    uuid.UUID
	ServiceCounties []string
	Specialty       string
	ContactPhone    string
	ContactEmail    string
	UpdatedAt       time.Time
}

// Repository provides database operations for contractor preferences.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new preferences repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get fetches a contractor's preferences.
func (r *Repository) Get(ctx context.Context, contractorID uuid.UUID) (Preference, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT contractor_id, service_counties, specialty, contact_phone, contact_email, updated_at
		 FROM contractor_preferences WHERE contractor_id = $1`,
		contractorID)

	var pref Preference
	err := row.Scan(&pref.ContractorID, &pref.ServiceCounties, &pref.Specialty, &pref.ContactPhone, &pref.ContactEmail, &pref.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Preference{}, apperr.NotFound("contractor preferences not found")
		}
		return Preference{}, fmt.Errorf("get preferences: %w", err)
	}
	return pref, nil
}

// Upsert creates or replaces a contractor's preferences.
func (r *Repository) Upsert(ctx context.Context, pref Preference) (Preference, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO contractor_preferences (contractor_id, service_counties, specialty, contact_phone, contact_email, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (contractor_id) DO UPDATE
		 SET service_counties = EXCLUDED.service_counties,
		     specialty = EXCLUDED.specialty,
		     contact_phone = EXCLUDED.contact_phone,
		     contact_email = EXCLUDED.contact_email,
		     updated_at = now()
		 RETURNING contractor_id, service_counties, specialty, contact_phone, contact_email, updated_at`,
		pref.ContractorID, pref.ServiceCounties, pref.Specialty, pref.ContactPhone, pref.ContactEmail)

	var stored Preference
	err := row.Scan(&stored.ContractorID, &stored.ServiceCounties, &stored.Specialty, &stored.ContactPhone, &stored.ContactEmail, &stored.UpdatedAt)
	if err != nil {
		return Preference{}, fmt.Errorf("upsert preferences: %w", err)
	}
	return stored, nil
}
