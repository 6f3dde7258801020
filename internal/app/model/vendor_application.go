package model

import "time"

type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "DRAFT"
	ApplicationStatusSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationStatusReviewed  ApplicationStatus = "REVIEWED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusApproved  ApplicationStatus = "APPROVED"
)

// VendorApplication is the single onboarding record owned by a vendor user.
type VendorApplication struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID          string  `gorm:"type:varchar(191);not null;uniqueIndex" json:"user_id"` // identity provider subject (1:1)
	CountryID       uint    `gorm:"not null;index" json:"country_id"`
	VendorTypeID    uint    `gorm:"not null;index" json:"vendor_type_id"`
	OtherVendorType *string `gorm:"type:varchar(150)" json:"other_vendor_type,omitempty"`

	// 사업자 정보
	BusinessName       string `gorm:"type:varchar(200);not null" json:"business_name"`
	RegistrationNumber string `gorm:"type:varchar(100)" json:"registration_number,omitempty"`
	TaxID              string `gorm:"type:varchar(100)" json:"tax_id,omitempty"`
	BusinessEmail      string `gorm:"type:varchar(200)" json:"business_email,omitempty"`
	BusinessPhone      string `gorm:"type:varchar(50)" json:"business_phone,omitempty"`

	// 대표자 정보
	OwnerName  string `gorm:"type:varchar(150);not null" json:"owner_name"`
	OwnerEmail string `gorm:"type:varchar(200)" json:"owner_email,omitempty"`
	OwnerPhone string `gorm:"type:varchar(50);not null" json:"owner_phone"`

	// 주소
	AddressLine1 string `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2,omitempty"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	State        string `gorm:"type:varchar(100)" json:"state,omitempty"`
	PostalCode   string `gorm:"type:varchar(20)" json:"postal_code,omitempty"`

	Status          ApplicationStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	RejectionReason *string           `gorm:"type:text" json:"rejection_reason,omitempty"`
	RevisionNotes   *string           `gorm:"type:text" json:"revision_notes,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy      *string           `gorm:"type:varchar(191)" json:"reviewed_by,omitempty"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`

	Country    Country    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"country,omitempty"`
	VendorType VendorType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"vendor_type,omitempty"`
}

func (VendorApplication) TableName() string {
	return "vendor_applications"
}

// IsEditable reports whether business fields and documents may change.
func (a *VendorApplication) IsEditable() bool {
	return a.Status == ApplicationStatusDraft || a.Status == ApplicationStatusRejected
}

// ClearReview drops the rejection metadata left by a previous review.
func (a *VendorApplication) ClearReview() {
	a.RejectionReason = nil
	a.RevisionNotes = nil
	a.ReviewedAt = nil
	a.ReviewedBy = nil
}
