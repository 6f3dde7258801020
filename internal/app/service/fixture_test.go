package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/internal/db"
	"github.com/ikkim/vendor-onboarding/internal/lock"
	"github.com/ikkim/vendor-onboarding/internal/storage"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func testOnboardingConfig() config.OnboardingConfig {
	return config.OnboardingConfig{
		UploadURLExpiry:     5 * time.Minute,
		ViewURLExpiry:       2 * time.Minute,
		MaxFileSize:         10 << 20,
		AllowedContentTypes: []string{"application/pdf", "image/jpeg", "image/png"},
	}
}

// onboardingFixture seeds Kenya with Restaurant (two required, one optional
// document), Bakery (no documents) and OTHER, plus decoys the resolver must skip.
type onboardingFixture struct {
	db      *gorm.DB
	clock   *testclock.Clock
	storage *storage.MemoryStorage

	appRepo      repository.ApplicationRepository
	documentRepo repository.DocumentRepository

	requirements RequirementService
	progress     ProgressService
	apps         ApplicationService
	docs         DocumentService
	uploads      UploadService
	references   ReferenceService

	kenya      model.Country
	uganda     model.Country
	restaurant model.VendorType
	bakery     model.VendorType
	other      model.VendorType

	businessPermit model.DocumentTypeConfig
	foodHandling   model.DocumentTypeConfig
	kebs           model.DocumentTypeConfig
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func setupOnboardingFixture(t *testing.T) *onboardingFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &onboardingFixture{
		db:      testDB,
		clock:   testclock.NewClock(fixtureStart),
		storage: storage.NewMemoryStorage("test-bucket"),
	}

	referenceRepo := repository.NewReferenceRepository(testDB)
	f.appRepo = repository.NewApplicationRepository(testDB)
	f.documentRepo = repository.NewDocumentRepository(testDB)

	cfg := testOnboardingConfig()
	f.requirements = NewRequirementService(referenceRepo)
	f.progress = NewProgressService(f.requirements, f.documentRepo)
	f.apps = NewApplicationService(f.appRepo, referenceRepo, f.progress, f.clock)
	f.docs = NewDocumentService(f.appRepo, f.documentRepo, f.requirements, f.progress, f.storage, lock.NewLocalSlotLocker(), f.clock, cfg)
	f.uploads = NewUploadService(f.appRepo, f.requirements, f.storage, f.clock, cfg)
	f.references = NewReferenceService(referenceRepo)

	f.kenya = model.Country{Name: "Kenya", ISOCode: "KE", Currency: "KES", Status: model.RecordStatusActive}
	f.uganda = model.Country{Name: "Uganda", ISOCode: "UG", Currency: "UGX", Status: model.RecordStatusActive}
	require.NoError(t, testDB.Create(&f.kenya).Error)
	require.NoError(t, testDB.Create(&f.uganda).Error)

	f.restaurant = model.VendorType{Name: "Restaurant", Code: "RESTAURANT", Status: model.RecordStatusActive}
	f.bakery = model.VendorType{Name: "Bakery", Code: "BAKERY", Status: model.RecordStatusActive}
	f.other = model.VendorType{Name: "Other", Code: model.VendorTypeCodeOther, Status: model.RecordStatusActive}
	for _, vt := range []*model.VendorType{&f.restaurant, &f.bakery, &f.other} {
		require.NoError(t, testDB.Create(vt).Error)
		require.NoError(t, testDB.Create(&model.VendorTypeCountry{
			VendorTypeID: vt.ID,
			CountryID:    f.kenya.ID,
			Status:       model.RecordStatusActive,
		}).Error)
	}

	f.businessPermit = f.createDocumentType(t, "Business Permit", "KE_BUSINESS_PERMIT", f.kenya.ID, model.DocumentScopeVendor, model.RecordStatusActive)
	f.foodHandling = f.createDocumentType(t, "Food Handling Certificate", "KE_FOOD_HANDLING", f.kenya.ID, model.DocumentScopeVendor, model.RecordStatusActive)
	f.kebs = f.createDocumentType(t, "KEBS Certificate", "KE_KEBS", f.kenya.ID, model.DocumentScopeVendor, model.RecordStatusActive)
	f.linkDocumentType(t, f.businessPermit.ID, f.restaurant.ID, boolPtr(true))
	f.linkDocumentType(t, f.foodHandling.ID, f.restaurant.ID, boolPtr(true))
	f.linkDocumentType(t, f.kebs.ID, f.restaurant.ID, nil)

	// Decoys: outlet scope, inactive type, other country.
	outlet := f.createDocumentType(t, "Outlet Lease", "KE_OUTLET_LEASE", f.kenya.ID, model.DocumentScopeOutlet, model.RecordStatusActive)
	retired := f.createDocumentType(t, "Retired Permit", "KE_RETIRED", f.kenya.ID, model.DocumentScopeVendor, model.RecordStatusInactive)
	foreign := f.createDocumentType(t, "Uganda Trading Licence", "UG_TRADING", f.uganda.ID, model.DocumentScopeVendor, model.RecordStatusActive)
	f.linkDocumentType(t, outlet.ID, f.restaurant.ID, boolPtr(true))
	f.linkDocumentType(t, retired.ID, f.restaurant.ID, boolPtr(true))
	f.linkDocumentType(t, foreign.ID, f.restaurant.ID, boolPtr(true))

	return f
}

func (f *onboardingFixture) createDocumentType(t *testing.T, name, code string, countryID uint, scope model.DocumentScope, status model.RecordStatus) model.DocumentTypeConfig {
	dt := model.DocumentTypeConfig{
		Name:      name,
		Code:      code,
		Scope:     scope,
		CountryID: countryID,
		Status:    status,
	}
	require.NoError(t, f.db.Create(&dt).Error)
	return dt
}

func (f *onboardingFixture) linkDocumentType(t *testing.T, documentTypeID, vendorTypeID uint, required *bool) {
	require.NoError(t, f.db.Create(&model.DocumentTypeVendorTypeConfig{
		DocumentTypeID: documentTypeID,
		VendorTypeID:   vendorTypeID,
		IsRequired:     required,
	}).Error)
}

func (f *onboardingFixture) fields(vendorTypeID uint) ApplicationFields {
	return ApplicationFields{
		CountryID:    f.kenya.ID,
		VendorTypeID: vendorTypeID,
		BusinessName: "Mama Oliech Kitchen",
		OwnerName:    "Achieng Otieno",
		OwnerPhone:   "+254700000001",
		AddressLine1: "Marcus Garvey Rd",
		City:         "Nairobi",
	}
}

func (f *onboardingFixture) createApplication(t *testing.T, userID string, vendorTypeID uint) *model.VendorApplication {
	app, err := f.apps.CreateApplication(context.Background(), userID, f.fields(vendorTypeID))
	require.NoError(t, err)
	return app
}

// upload presigns, simulates the client's PUT, and confirms the document.
func (f *onboardingFixture) upload(t *testing.T, userID string, documentTypeID uint) *DocumentResult {
	ctx := context.Background()
	presigned, err := f.uploads.PresignUpload(ctx, userID, PresignUploadInput{
		DocumentTypeID: documentTypeID,
		FileName:       "scan.pdf",
		ContentType:    "application/pdf",
	})
	require.NoError(t, err)

	f.storage.Put(presigned.StorageKey, "application/pdf", 2048)

	result, err := f.docs.UpsertDocument(ctx, userID, UpsertDocumentInput{
		DocumentTypeID: documentTypeID,
		StorageKey:     presigned.StorageKey,
		DocumentName:   "scan.pdf",
		FileSize:       2048,
		MimeType:       "application/pdf",
	})
	require.NoError(t, err)
	return result
}

// setStatus forces an application status as the external review workflow would.
func (f *onboardingFixture) setStatus(t *testing.T, applicationID uint, status model.ApplicationStatus) {
	require.NoError(t, f.db.Model(&model.VendorApplication{}).
		Where("id = ?", applicationID).
		Update("status", status).Error)
}
