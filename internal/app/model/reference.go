package model

import (
	"time"

	"gorm.io/gorm"
)

// RecordStatus is the lifecycle flag shared by reference data rows.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "ACTIVE"
	RecordStatusInactive RecordStatus = "INACTIVE"
	RecordStatusDeleted  RecordStatus = "DELETED"
)

// Country is onboarding reference data. Only ACTIVE countries accept applications.
type Country struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string       `gorm:"type:varchar(100);not null" json:"name"`
	ISOCode  string       `gorm:"type:varchar(3);not null;uniqueIndex" json:"iso_code"`
	Currency string       `gorm:"type:varchar(3);not null" json:"currency"`
	Status   RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
}

func (Country) TableName() string {
	return "countries"
}

// VendorTypeCodeOther marks the catch-all vendor type that needs a free-text description.
const VendorTypeCodeOther = "OTHER"

// VendorType describes a category of vendor business (restaurant, bakery, ...).
type VendorType struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name   string       `gorm:"type:varchar(100);not null" json:"name"`
	Code   string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Status RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
}

func (VendorType) TableName() string {
	return "vendor_types"
}

// IsOther reports whether the type is the free-text catch-all.
func (v *VendorType) IsOther() bool {
	return v.Code == VendorTypeCodeOther
}

// VendorTypeCountry enables a vendor type for one country.
type VendorTypeCountry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VendorTypeID uint         `gorm:"not null;uniqueIndex:idx_vendor_type_country" json:"vendor_type_id"`
	CountryID    uint         `gorm:"not null;uniqueIndex:idx_vendor_type_country;index" json:"country_id"`
	Status       RecordStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	VendorType VendorType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Country    Country    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (VendorTypeCountry) TableName() string {
	return "vendor_type_countries"
}
