package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationService_CreateApplication_Success(t *testing.T) {
	f := setupOnboardingFixture(t)

	app := f.createApplication(t, "user-1", f.restaurant.ID)
	assert.NotZero(t, app.ID)
	assert.Equal(t, "user-1", app.UserID)
	assert.Equal(t, model.ApplicationStatusDraft, app.Status)
	assert.Equal(t, "Kenya", app.Country.Name)
	assert.Equal(t, "Restaurant", app.VendorType.Name)
	assert.Nil(t, app.SubmittedAt)
}

func TestApplicationService_CreateApplication_OnePerUser(t *testing.T) {
	f := setupOnboardingFixture(t)
	f.createApplication(t, "user-1", f.restaurant.ID)

	_, err := f.apps.CreateApplication(context.Background(), "user-1", f.fields(f.bakery.ID))
	assert.ErrorIs(t, err, ErrApplicationExists)
}

func TestApplicationService_CreateApplication_MissingFields(t *testing.T) {
	f := setupOnboardingFixture(t)
	fields := f.fields(f.restaurant.ID)
	fields.BusinessName = ""
	fields.City = "  \t"

	_, err := f.apps.CreateApplication(context.Background(), "user-1", fields)
	require.ErrorIs(t, err, ErrMissingRequiredFields)

	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.ElementsMatch(t, []string{"business_name", "city"}, missing.Fields)
}

func TestApplicationService_CreateApplication_OtherVendorType(t *testing.T) {
	f := setupOnboardingFixture(t)
	ctx := context.Background()

	_, err := f.apps.CreateApplication(ctx, "user-1", f.fields(f.other.ID))
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"other_vendor_type"}, missing.Fields)

	fields := f.fields(f.other.ID)
	fields.OtherVendorType = stringPtr("  Food truck ")
	app, err := f.apps.CreateApplication(ctx, "user-1", fields)
	require.NoError(t, err)
	require.NotNil(t, app.OtherVendorType)
	assert.Equal(t, "Food truck", *app.OtherVendorType)

	fields = f.fields(f.restaurant.ID)
	fields.OtherVendorType = stringPtr("ignored")
	app, err = f.apps.CreateApplication(ctx, "user-2", fields)
	require.NoError(t, err)
	assert.Nil(t, app.OtherVendorType)
}

func TestApplicationService_CreateApplication_Eligibility(t *testing.T) {
	f := setupOnboardingFixture(t)
	ctx := context.Background()

	// Linked to Uganda only.
	fields := f.fields(f.restaurant.ID)
	fields.CountryID = f.uganda.ID
	_, err := f.apps.CreateApplication(ctx, "user-1", fields)
	assert.ErrorIs(t, err, ErrVendorTypeNotEligible)

	require.NoError(t, f.db.Model(&model.VendorTypeCountry{}).
		Where("vendor_type_id = ? AND country_id = ?", f.bakery.ID, f.kenya.ID).
		Update("status", model.RecordStatusInactive).Error)
	_, err = f.apps.CreateApplication(ctx, "user-1", f.fields(f.bakery.ID))
	assert.ErrorIs(t, err, ErrVendorTypeNotEligible)

	require.NoError(t, f.db.Delete(&model.VendorType{}, f.other.ID).Error)
	fields = f.fields(f.other.ID)
	fields.OtherVendorType = stringPtr("Food truck")
	_, err = f.apps.CreateApplication(ctx, "user-1", fields)
	assert.ErrorIs(t, err, ErrVendorTypeNotEligible)

	require.NoError(t, f.db.Model(&model.Country{}).
		Where("id = ?", f.kenya.ID).
		Update("status", model.RecordStatusInactive).Error)
	_, err = f.apps.CreateApplication(ctx, "user-1", f.fields(f.restaurant.ID))
	assert.ErrorIs(t, err, ErrCountryNotEligible)
}

func TestApplicationService_UpdateApplication_CountryImmutable(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.restaurant.ID)

	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusDraft,
		model.ApplicationStatusSubmitted,
		model.ApplicationStatusReviewed,
		model.ApplicationStatusRejected,
		model.ApplicationStatusApproved,
	} {
		f.setStatus(t, app.ID, status)
		fields := f.fields(f.restaurant.ID)
		fields.CountryID = f.uganda.ID

		_, err := f.apps.UpdateApplication(context.Background(), "user-1", app.ID, fields)
		assert.ErrorIs(t, err, ErrCountryImmutable, string(status))
	}
}

func TestApplicationService_UpdateApplication_Draft(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.restaurant.ID)

	fields := f.fields(f.bakery.ID)
	fields.CountryID = 0
	fields.BusinessName = "Nairobi Bakehouse"

	updated, err := f.apps.UpdateApplication(context.Background(), "user-1", app.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, "Nairobi Bakehouse", updated.BusinessName)
	assert.Equal(t, f.bakery.ID, updated.VendorTypeID)
	assert.Equal(t, "Bakery", updated.VendorType.Name)
	assert.Equal(t, f.kenya.ID, updated.CountryID)
	assert.Equal(t, model.ApplicationStatusDraft, updated.Status)
}

func TestApplicationService_UpdateApplication_LockedAndOwnership(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.restaurant.ID)
	ctx := context.Background()

	_, err := f.apps.UpdateApplication(ctx, "user-2", app.ID, f.fields(f.restaurant.ID))
	assert.ErrorIs(t, err, ErrApplicationAccessDenied)

	_, err = f.apps.UpdateApplication(ctx, "user-1", app.ID+100, f.fields(f.restaurant.ID))
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusSubmitted,
		model.ApplicationStatusReviewed,
		model.ApplicationStatusApproved,
	} {
		f.setStatus(t, app.ID, status)
		_, err := f.apps.UpdateApplication(ctx, "user-1", app.ID, f.fields(f.restaurant.ID))
		assert.ErrorIs(t, err, ErrApplicationLocked, string(status))
	}
}

func TestApplicationService_SubmitApplication_KenyaJourney(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.restaurant.ID)
	ctx := context.Background()

	_, err := f.apps.SubmitApplication(ctx, "user-1", app.ID)
	require.ErrorIs(t, err, ErrIncompleteDocuments)

	var incomplete *IncompleteDocumentsError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 2, incomplete.Progress.RequiredTotal)
	assert.Equal(t, []string{"Business Permit", "Food Handling Certificate"}, incomplete.Missing)

	f.upload(t, "user-1", f.businessPermit.ID)
	_, err = f.apps.SubmitApplication(ctx, "user-1", app.ID)
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"Food Handling Certificate"}, incomplete.Missing)

	current, err := f.apps.GetApplication(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusDraft, current.Status)

	f.upload(t, "user-1", f.foodHandling.ID)
	f.clock.Advance(time.Hour)

	submitted, err := f.apps.SubmitApplication(ctx, "user-1", app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.True(t, submitted.SubmittedAt.Equal(fixtureStart.Add(time.Hour)))

	_, err = f.apps.SubmitApplication(ctx, "user-1", app.ID)
	assert.ErrorIs(t, err, ErrApplicationLocked)

	_, err = f.uploads.PresignUpload(ctx, "user-1", PresignUploadInput{
		DocumentTypeID: f.kebs.ID,
		FileName:       "kebs.pdf",
		ContentType:    "application/pdf",
	})
	assert.ErrorIs(t, err, ErrApplicationLocked)
}

func TestApplicationService_SubmitApplication_NoRequirements(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.bakery.ID)

	submitted, err := f.apps.SubmitApplication(context.Background(), "user-1", app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSubmitted, submitted.Status)
}

func TestApplicationService_RecordReview_RejectionLoop(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.bakery.ID)
	ctx := context.Background()

	_, err := f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{Status: model.ApplicationStatusReviewed})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.apps.SubmitApplication(ctx, "user-1", app.ID)
	require.NoError(t, err)

	_, err = f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{Status: model.ApplicationStatusDraft})
	assert.ErrorIs(t, err, ErrInvalidReviewDecision)

	_, err = f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{Status: model.ApplicationStatusRejected})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	reviewed, err := f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{Status: model.ApplicationStatusReviewed})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusReviewed, reviewed.Status)

	rejected, err := f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{
		Status:          model.ApplicationStatusRejected,
		RejectionReason: "Business name does not match permit",
		RevisionNotes:   "Use the registered trading name",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Business name does not match permit", *rejected.RejectionReason)
	require.NotNil(t, rejected.ReviewedBy)
	assert.Equal(t, "admin-1", *rejected.ReviewedBy)

	fields := f.fields(f.bakery.ID)
	fields.BusinessName = "Bakehouse Ltd"
	reopened, err := f.apps.UpdateApplication(ctx, "user-1", app.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusDraft, reopened.Status)
	assert.Nil(t, reopened.RejectionReason)
	assert.Nil(t, reopened.RevisionNotes)
	assert.Nil(t, reopened.ReviewedAt)
	assert.Nil(t, reopened.ReviewedBy)

	resubmitted, err := f.apps.SubmitApplication(ctx, "user-1", app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSubmitted, resubmitted.Status)

	approved, err := f.apps.RecordReview(ctx, app.ID, "admin-2", ReviewDecision{Status: model.ApplicationStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, approved.Status)
	assert.Nil(t, approved.RejectionReason)

	_, err = f.apps.RecordReview(ctx, app.ID, "admin-2", ReviewDecision{Status: model.ApplicationStatusRejected, RejectionReason: "late"})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestApplicationService_SubmitFromRejected(t *testing.T) {
	f := setupOnboardingFixture(t)
	app := f.createApplication(t, "user-1", f.bakery.ID)
	f.setStatus(t, app.ID, model.ApplicationStatusRejected)

	submitted, err := f.apps.SubmitApplication(context.Background(), "user-1", app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSubmitted, submitted.Status)
}

// beforeUpdateRepository runs hook between an edit's read and its write.
type beforeUpdateRepository struct {
	repository.ApplicationRepository
	hook func()
}

func (r *beforeUpdateRepository) Update(ctx context.Context, app *model.VendorApplication, from []model.ApplicationStatus) (bool, error) {
	if r.hook != nil {
		r.hook()
		r.hook = nil
	}
	return r.ApplicationRepository.Update(ctx, app, from)
}

func TestApplicationService_UpdateApplication_LosesToConcurrentTransition(t *testing.T) {
	tests := []struct {
		name       string
		vendorType func(f *onboardingFixture) uint
		documents  bool
		start      model.ApplicationStatus
		interleave func(t *testing.T, f *onboardingFixture, app *model.VendorApplication)
		want       model.ApplicationStatus
	}{
		{
			name:       "submit from draft",
			vendorType: func(f *onboardingFixture) uint { return f.restaurant.ID },
			documents:  true,
			start:      model.ApplicationStatusDraft,
			interleave: func(t *testing.T, f *onboardingFixture, app *model.VendorApplication) {
				_, err := f.apps.SubmitApplication(context.Background(), "user-1", app.ID)
				require.NoError(t, err)
			},
			want: model.ApplicationStatusSubmitted,
		},
		{
			name:       "resubmit and approval from rejected",
			vendorType: func(f *onboardingFixture) uint { return f.bakery.ID },
			start:      model.ApplicationStatusRejected,
			interleave: func(t *testing.T, f *onboardingFixture, app *model.VendorApplication) {
				ctx := context.Background()
				_, err := f.apps.SubmitApplication(ctx, "user-1", app.ID)
				require.NoError(t, err)
				_, err = f.apps.RecordReview(ctx, app.ID, "admin-1", ReviewDecision{Status: model.ApplicationStatusApproved})
				require.NoError(t, err)
			},
			want: model.ApplicationStatusApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupOnboardingFixture(t)
			app := f.createApplication(t, "user-1", tt.vendorType(f))
			if tt.documents {
				f.upload(t, "user-1", f.businessPermit.ID)
				f.upload(t, "user-1", f.foodHandling.ID)
			}
			f.setStatus(t, app.ID, tt.start)

			repo := &beforeUpdateRepository{ApplicationRepository: f.appRepo}
			repo.hook = func() { tt.interleave(t, f, app) }
			apps := NewApplicationService(repo, repository.NewReferenceRepository(f.db), f.progress, f.clock)

			fields := f.fields(tt.vendorType(f))
			fields.BusinessName = "Late Edit Kitchen"
			_, err := apps.UpdateApplication(context.Background(), "user-1", app.ID, fields)
			assert.ErrorIs(t, err, ErrApplicationLocked)

			current, err := f.apps.GetApplicationByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, current.Status)
			assert.NotNil(t, current.SubmittedAt)
			assert.Equal(t, "Mama Oliech Kitchen", current.BusinessName)
		})
	}
}

func TestApplicationService_GetApplication_NotFound(t *testing.T) {
	f := setupOnboardingFixture(t)

	_, err := f.apps.GetApplication(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
