package repository

import (
	"context"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
)

// AllowedDocumentTypeRow is one document type linked to a vendor type within a country.
type AllowedDocumentTypeRow struct {
	DocumentTypeID uint
	Name           string
	Code           string
	Description    string
	IsRequired     *bool
}

type ReferenceRepository interface {
	FindActiveCountries(ctx context.Context) ([]model.Country, error)
	FindCountryByID(ctx context.Context, id uint) (*model.Country, error)
	FindEligibleVendorTypes(ctx context.Context, countryID uint) ([]model.VendorType, error)
	FindEligibleVendorType(ctx context.Context, countryID, vendorTypeID uint) (*model.VendorType, error)
	FindAllowedDocumentTypes(ctx context.Context, countryID, vendorTypeID uint) ([]AllowedDocumentTypeRow, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindActiveCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.RecordStatusActive).
		Order("name ASC").
		Find(&countries).Error; err != nil {
		logger.Error("Failed to find active countries in database", err)
		return nil, err
	}
	return countries, nil
}

func (r *referenceRepository) FindCountryByID(ctx context.Context, id uint) (*model.Country, error) {
	var country model.Country
	if err := r.db.WithContext(ctx).First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// eligibleVendorTypes scopes vendor types to those enabled for the country.
// The soft-delete scope on vendor_types is applied by gorm.
func (r *referenceRepository) eligibleVendorTypes(ctx context.Context, countryID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.VendorType{}).
		Joins("JOIN vendor_type_countries ON vendor_type_countries.vendor_type_id = vendor_types.id").
		Where("vendor_type_countries.country_id = ?", countryID).
		Where("vendor_type_countries.status = ?", model.RecordStatusActive).
		Where("vendor_types.status = ?", model.RecordStatusActive)
}

func (r *referenceRepository) FindEligibleVendorTypes(ctx context.Context, countryID uint) ([]model.VendorType, error) {
	logger.Debug("Finding eligible vendor types in database", map[string]interface{}{
		"country_id": countryID,
	})

	var types []model.VendorType
	if err := r.eligibleVendorTypes(ctx, countryID).
		Order("vendor_types.name ASC").
		Find(&types).Error; err != nil {
		logger.Error("Failed to find eligible vendor types in database", err, map[string]interface{}{
			"country_id": countryID,
		})
		return nil, err
	}
	return types, nil
}

func (r *referenceRepository) FindEligibleVendorType(ctx context.Context, countryID, vendorTypeID uint) (*model.VendorType, error) {
	var vendorType model.VendorType
	if err := r.eligibleVendorTypes(ctx, countryID).
		Where("vendor_types.id = ?", vendorTypeID).
		First(&vendorType).Error; err != nil {
		return nil, err
	}
	return &vendorType, nil
}

func (r *referenceRepository) FindAllowedDocumentTypes(ctx context.Context, countryID, vendorTypeID uint) ([]AllowedDocumentTypeRow, error) {
	logger.Debug("Finding allowed document types in database", map[string]interface{}{
		"country_id":     countryID,
		"vendor_type_id": vendorTypeID,
	})

	var rows []AllowedDocumentTypeRow
	if err := r.db.WithContext(ctx).
		Table("document_type_configs").
		Select(`document_type_configs.id AS document_type_id,
			document_type_configs.name AS name,
			document_type_configs.code AS code,
			document_type_configs.description AS description,
			document_type_vendor_type_configs.is_required AS is_required`).
		Joins("JOIN document_type_vendor_type_configs ON document_type_vendor_type_configs.document_type_id = document_type_configs.id").
		Where("document_type_configs.country_id = ?", countryID).
		Where("document_type_configs.scope = ?", model.DocumentScopeVendor).
		Where("document_type_configs.status = ?", model.RecordStatusActive).
		Where("document_type_vendor_type_configs.vendor_type_id = ?", vendorTypeID).
		Order("document_type_configs.name ASC, document_type_configs.id ASC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to find allowed document types in database", err, map[string]interface{}{
			"country_id":     countryID,
			"vendor_type_id": vendorTypeID,
		})
		return nil, err
	}

	logger.Debug("Allowed document types found in database", map[string]interface{}{
		"country_id":     countryID,
		"vendor_type_id": vendorTypeID,
		"count":          len(rows),
	})
	return rows, nil
}
