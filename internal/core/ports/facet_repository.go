package ports

import (
	"context"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// DoctorRepository persists doctor facets keyed by identity ID.
type DoctorRepository interface {
	// Create fails with domain.ErrFacetAlreadyExists when a row for the ID exists.
	Create(ctx context.Context, facet *domain.DoctorFacet) error
	FindByID(ctx context.Context, id int64) (*domain.DoctorFacet, error)
	List(ctx context.Context) ([]*domain.DoctorFacet, error)
	Update(ctx context.Context, facet *domain.DoctorFacet) error
	Delete(ctx context.Context, id int64) error
}

// PatientRepository persists patient facets keyed by identity ID.
type PatientRepository interface {
	// Create fails with domain.ErrFacetAlreadyExists when a row for the ID exists.
	Create(ctx context.Context, facet *domain.PatientFacet) error
	FindByID(ctx context.Context, id int64) (*domain.PatientFacet, error)
	List(ctx context.Context) ([]*domain.PatientFacet, error)
	Update(ctx context.Context, facet *domain.PatientFacet) error
	Delete(ctx context.Context, id int64) error
}
