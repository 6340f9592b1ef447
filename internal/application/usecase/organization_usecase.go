package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
	"github.com/retailcore/pos-api/pkg/fdms"
)

const defaultCurrency = "USD"

// OrganizationUseCase maintains the single business profile row.
type OrganizationUseCase struct {
	repo repository.OrganizationRepository
}

// NewOrganizationUseCase builds the use case.
func NewOrganizationUseCase(repo repository.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo}
}

// Get returns the profile or ErrNotFound before first setup.
func (uc *OrganizationUseCase) Get(ctx context.Context) (*dto.OrganizationResponse, error) {
	o, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrganizationResponse(o), nil
}

// Upsert creates or replaces the profile. A TIN, when given, must be a valid
// ZIMRA taxpayer number.
func (uc *OrganizationUseCase) Upsert(ctx context.Context, in dto.UpsertOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TIN != "" {
		if err := fdms.ValidateTIN(in.TIN); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	o, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if o == nil {
		o = &entity.Organization{ID: uuid.New().String(), CreatedAt: now}
	}
	o.Name = in.Name
	o.TradeName = in.TradeName
	o.TIN = in.TIN
	o.VATNumber = in.VATNumber
	o.Address = in.Address
	o.Phone = in.Phone
	o.Email = in.Email
	o.Currency = in.Currency
	if o.Currency == "" {
		o.Currency = defaultCurrency
	}
	o.UpdatedAt = now
	if err := uc.repo.Upsert(ctx, o); err != nil {
		return nil, err
	}
	return toOrganizationResponse(o), nil
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		TradeName: o.TradeName,
		TIN:       o.TIN,
		VATNumber: o.VATNumber,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		Currency:  o.Currency,
	}
}
