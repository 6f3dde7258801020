package main

import (
	"fmt"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
)

// ImportSummary counts the rows written per sheet.
type ImportSummary struct {
	Countries               int
	VendorTypes             int
	VendorTypeCountries     int
	DocumentTypes           int
	DocumentTypeVendorTypes int
}

// importWorkbook upserts every sheet by natural key in one transaction,
// so re-running the same workbook leaves the tables unchanged.
func importWorkbook(db *gorm.DB, wb *Workbook) (*ImportSummary, error) {
	summary := &ImportSummary{}

	err := db.Transaction(func(tx *gorm.DB) error {
		countryIDs := make(map[string]uint)
		for _, r := range wb.Countries {
			country := model.Country{}
			if err := tx.Where(model.Country{ISOCode: r.ISOCode}).
				Assign(map[string]interface{}{
					"name":     r.Name,
					"currency": r.Currency,
					"status":   r.Status,
				}).
				FirstOrCreate(&country).Error; err != nil {
				return fmt.Errorf("country %s: %w", r.ISOCode, err)
			}
			countryIDs[r.ISOCode] = country.ID
			summary.Countries++
		}

		vendorTypeIDs := make(map[string]uint)
		for _, r := range wb.VendorTypes {
			vendorType := model.VendorType{}
			// 삭제된 업종도 같은 코드로 다시 가져오면 복구
			if err := tx.Unscoped().Where(model.VendorType{Code: r.Code}).
				Assign(map[string]interface{}{
					"name":       r.Name,
					"status":     r.Status,
					"deleted_at": nil,
				}).
				FirstOrCreate(&vendorType).Error; err != nil {
				return fmt.Errorf("vendor type %s: %w", r.Code, err)
			}
			vendorTypeIDs[r.Code] = vendorType.ID
			summary.VendorTypes++
		}

		lookupCountry := func(iso string) (uint, error) {
			if id, ok := countryIDs[iso]; ok {
				return id, nil
			}
			var country model.Country
			if err := tx.Where("iso_code = ?", iso).First(&country).Error; err != nil {
				return 0, fmt.Errorf("unknown country %s: %w", iso, err)
			}
			countryIDs[iso] = country.ID
			return country.ID, nil
		}
		lookupVendorType := func(code string) (uint, error) {
			if id, ok := vendorTypeIDs[code]; ok {
				return id, nil
			}
			var vendorType model.VendorType
			if err := tx.Where("code = ?", code).First(&vendorType).Error; err != nil {
				return 0, fmt.Errorf("unknown vendor type %s: %w", code, err)
			}
			vendorTypeIDs[code] = vendorType.ID
			return vendorType.ID, nil
		}

		for _, r := range wb.VendorTypeCountries {
			countryID, err := lookupCountry(r.CountryISO)
			if err != nil {
				return err
			}
			vendorTypeID, err := lookupVendorType(r.VendorTypeCode)
			if err != nil {
				return err
			}
			link := model.VendorTypeCountry{}
			if err := tx.Where(model.VendorTypeCountry{VendorTypeID: vendorTypeID, CountryID: countryID}).
				Assign(map[string]interface{}{"status": r.Status}).
				FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("vendor type %s in %s: %w", r.VendorTypeCode, r.CountryISO, err)
			}
			summary.VendorTypeCountries++
		}

		documentTypeIDs := make(map[string]uint)
		for _, r := range wb.DocumentTypes {
			countryID, err := lookupCountry(r.CountryISO)
			if err != nil {
				return err
			}
			documentType := model.DocumentTypeConfig{}
			if err := tx.Where(model.DocumentTypeConfig{Code: r.Code, CountryID: countryID}).
				Assign(map[string]interface{}{
					"name":        r.Name,
					"description": r.Description,
					"scope":       r.Scope,
					"status":      r.Status,
				}).
				FirstOrCreate(&documentType).Error; err != nil {
				return fmt.Errorf("document type %s/%s: %w", r.CountryISO, r.Code, err)
			}
			documentTypeIDs[r.CountryISO+"/"+r.Code] = documentType.ID
			summary.DocumentTypes++
		}

		for _, r := range wb.DocumentTypeVendorTypes {
			countryID, err := lookupCountry(r.CountryISO)
			if err != nil {
				return err
			}
			documentTypeID, ok := documentTypeIDs[r.CountryISO+"/"+r.DocumentTypeCode]
			if !ok {
				var documentType model.DocumentTypeConfig
				if err := tx.Where("code = ? AND country_id = ?", r.DocumentTypeCode, countryID).
					First(&documentType).Error; err != nil {
					return fmt.Errorf("unknown document type %s/%s: %w", r.CountryISO, r.DocumentTypeCode, err)
				}
				documentTypeID = documentType.ID
			}
			vendorTypeID, err := lookupVendorType(r.VendorTypeCode)
			if err != nil {
				return err
			}
			link := model.DocumentTypeVendorTypeConfig{}
			if err := tx.Where(model.DocumentTypeVendorTypeConfig{DocumentTypeID: documentTypeID, VendorTypeID: vendorTypeID}).
				Assign(map[string]interface{}{"is_required": r.IsRequired}).
				FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("document type %s/%s for %s: %w", r.CountryISO, r.DocumentTypeCode, r.VendorTypeCode, err)
			}
			summary.DocumentTypeVendorTypes++
		}

		return nil
	})
	if err != nil {
		logger.Error("Reference data import rolled back", err)
		return nil, err
	}

	logger.Info("Reference data imported", map[string]interface{}{
		"countries":      summary.Countries,
		"vendor_types":   summary.VendorTypes,
		"document_types": summary.DocumentTypes,
	})
	return summary, nil
}
