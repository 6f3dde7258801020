package service

import (
	"context"
	"testing"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService_ListActiveCountries(t *testing.T) {
	f := setupOnboardingFixture(t)
	require.NoError(t, f.db.Create(&model.Country{Name: "Tanzania", ISOCode: "TZ", Currency: "TZS", Status: model.RecordStatusInactive}).Error)

	countries, err := f.references.ListActiveCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Kenya", countries[0].Name)
	assert.Equal(t, "Uganda", countries[1].Name)
}

func TestReferenceService_ListEligibleVendorTypes(t *testing.T) {
	f := setupOnboardingFixture(t)
	ctx := context.Background()

	types, err := f.references.ListEligibleVendorTypes(ctx, f.kenya.ID)
	require.NoError(t, err)
	require.Len(t, types, 3)

	require.NoError(t, f.db.Model(&model.VendorType{}).
		Where("id = ?", f.bakery.ID).
		Update("status", model.RecordStatusInactive).Error)
	types, err = f.references.ListEligibleVendorTypes(ctx, f.kenya.ID)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	types, err = f.references.ListEligibleVendorTypes(ctx, f.uganda.ID)
	require.NoError(t, err)
	assert.Empty(t, types)

	_, err = f.references.ListEligibleVendorTypes(ctx, 9999)
	assert.ErrorIs(t, err, ErrCountryNotEligible)
}
