package repository

import (
	"context"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.VendorApplication) error
	FindByID(ctx context.Context, id uint) (*model.VendorApplication, error)
	FindByUserID(ctx context.Context, userID string) (*model.VendorApplication, error)
	Update(ctx context.Context, app *model.VendorApplication, from []model.ApplicationStatus) (bool, error)
	TransitionStatus(ctx context.Context, id uint, from []model.ApplicationStatus, updates map[string]interface{}) (bool, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) preloadApplication(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Country").Preload("VendorType", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

func (r *applicationRepository) Create(ctx context.Context, app *model.VendorApplication) error {
	logger.Debug("Creating vendor application in database", map[string]interface{}{
		"user_id":        app.UserID,
		"country_id":     app.CountryID,
		"vendor_type_id": app.VendorTypeID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error; err != nil {
		logger.Error("Failed to create vendor application in database", err, map[string]interface{}{
			"user_id": app.UserID,
		})
		return err
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.VendorApplication, error) {
	var app model.VendorApplication
	if err := r.preloadApplication(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByUserID(ctx context.Context, userID string) (*model.VendorApplication, error) {
	var app model.VendorApplication
	if err := r.preloadApplication(ctx).Where("user_id = ?", userID).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// editableColumns are the columns a vendor edit writes. country_id is fixed
// at creation.
var editableColumns = []string{
	"vendor_type_id", "other_vendor_type",
	"business_name", "registration_number", "tax_id", "business_email", "business_phone",
	"owner_name", "owner_email", "owner_phone",
	"address_line1", "address_line2", "city", "state", "postal_code",
	"status", "rejection_reason", "revision_notes", "reviewed_at", "reviewed_by",
}

// Update writes the editable columns only while the application is still in
// one of the from statuses. It reports whether a row changed.
func (r *applicationRepository) Update(ctx context.Context, app *model.VendorApplication, from []model.ApplicationStatus) (bool, error) {
	logger.Debug("Updating vendor application in database", map[string]interface{}{
		"application_id": app.ID,
		"status":         app.Status,
	})

	result := r.db.WithContext(ctx).Model(app).
		Where("status IN ?", from).
		Select(editableColumns).
		Omit(clause.Associations).
		Updates(app)
	if result.Error != nil {
		logger.Error("Failed to update vendor application in database", result.Error, map[string]interface{}{
			"application_id": app.ID,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// TransitionStatus applies updates only while the application is in one of
// the from statuses. It reports whether a row changed.
func (r *applicationRepository) TransitionStatus(ctx context.Context, id uint, from []model.ApplicationStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.VendorApplication{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to transition vendor application status in database", result.Error, map[string]interface{}{
			"application_id": id,
			"from":           from,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
