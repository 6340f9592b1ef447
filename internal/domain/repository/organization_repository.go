package repository

import (
	"context"

	"github.com/retailcore/pos-api/internal/domain/entity"
)

// OrganizationRepository is the persistence port for the business profile.
// Get returns nil when the profile has not been created yet.
type OrganizationRepository interface {
	Get(ctx context.Context) (*entity.Organization, error)
	Upsert(ctx context.Context, o *entity.Organization) error
}
