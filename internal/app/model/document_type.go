package model

import "time"

// DocumentScope tells which onboarding subject a document type applies to.
type DocumentScope string

const (
	DocumentScopeVendor DocumentScope = "VENDOR"
	DocumentScopeOutlet DocumentScope = "OUTLET"
)

// DocumentTypeConfig is a class of compliance document meaningful within one country.
type DocumentTypeConfig struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string        `gorm:"type:varchar(150);not null" json:"name"`
	Code        string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_type_country_code" json:"code"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Scope       DocumentScope `gorm:"type:varchar(20);not null;default:'VENDOR'" json:"scope"`
	CountryID   uint          `gorm:"not null;uniqueIndex:idx_document_type_country_code;index" json:"country_id"`
	Status      RecordStatus  `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	Country Country `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (DocumentTypeConfig) TableName() string {
	return "document_type_configs"
}

// DocumentTypeVendorTypeConfig links a document type to a vendor type.
// IsRequired is nullable; a missing flag means the document is optional.
type DocumentTypeVendorTypeConfig struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DocumentTypeID uint  `gorm:"not null;uniqueIndex:idx_document_type_vendor_type" json:"document_type_id"`
	VendorTypeID   uint  `gorm:"not null;uniqueIndex:idx_document_type_vendor_type;index" json:"vendor_type_id"`
	IsRequired     *bool `json:"is_required,omitempty"`

	DocumentType DocumentTypeConfig `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	VendorType   VendorType         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (DocumentTypeVendorTypeConfig) TableName() string {
	return "document_type_vendor_type_configs"
}
