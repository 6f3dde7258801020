package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"gorm.io/gorm"
)

// ReferenceService serves the country and vendor type choices of the onboarding form.
type ReferenceService interface {
	ListActiveCountries(ctx context.Context) ([]model.Country, error)
	ListEligibleVendorTypes(ctx context.Context, countryID uint) ([]model.VendorType, error)
}

type referenceService struct {
	referenceRepo repository.ReferenceRepository
}

func NewReferenceService(referenceRepo repository.ReferenceRepository) ReferenceService {
	return &referenceService{referenceRepo: referenceRepo}
}

func (s *referenceService) ListActiveCountries(ctx context.Context) ([]model.Country, error) {
	countries, err := s.referenceRepo.FindActiveCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

func (s *referenceService) ListEligibleVendorTypes(ctx context.Context, countryID uint) ([]model.VendorType, error) {
	country, err := s.referenceRepo.FindCountryByID(ctx, countryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: country %d", ErrCountryNotEligible, countryID)
		}
		return nil, fmt.Errorf("load country: %w", err)
	}
	if country.Status != model.RecordStatusActive {
		return nil, fmt.Errorf("%w: %s", ErrCountryNotEligible, country.Name)
	}

	types, err := s.referenceRepo.FindEligibleVendorTypes(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("list vendor types: %w", err)
	}
	return types, nil
}
