package db

import (
	"errors"
	"fmt"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the onboarding core, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Country{},
		&model.VendorType{},
		&model.VendorTypeCountry{},
		&model.DocumentTypeConfig{},
		&model.DocumentTypeVendorTypeConfig{},
		&model.VendorApplication{},
		&model.VendorDocument{},
	}
}

// activeSlotIndex keeps at most one active document per (application, document type).
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_vendor_documents_active_slot
ON vendor_documents (application_id, document_type_id)
WHERE superseded_at IS NULL AND status <> 'WITHDRAWN'`

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(Models()),
	})
	return nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create active slot index: %w", err)
	}
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData(DB)
}

func seedInitialData(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	// "Other" 업종은 자유 입력 업종명을 받기 위해 항상 필요
	var other model.VendorType
	err := db.Unscoped().Where("code = ?", model.VendorTypeCodeOther).First(&other).Error
	if err == nil {
		logger.Info("Vendor type OTHER already seeded, skipping...")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	other = model.VendorType{
		Name:   "Other",
		Code:   model.VendorTypeCodeOther,
		Status: model.RecordStatusActive,
	}
	if err := db.Create(&other).Error; err != nil {
		return err
	}

	logger.Info("Initial data seeded successfully", map[string]interface{}{
		"vendor_type_id": other.ID,
	})
	return nil
}
