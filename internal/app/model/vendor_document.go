package model

import "time"

type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "PENDING"
	DocumentStatusApproved  DocumentStatus = "APPROVED"
	DocumentStatusRejected  DocumentStatus = "REJECTED"
	DocumentStatusWithdrawn DocumentStatus = "WITHDRAWN"
)

// UploadedDocumentStatuses count toward required-document completion.
var UploadedDocumentStatuses = []DocumentStatus{DocumentStatusPending, DocumentStatusApproved}

// VendorDocument occupies the (application, document type) slot while it is
// neither superseded nor withdrawn.
type VendorDocument struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID  uint `gorm:"not null;index" json:"application_id"`
	DocumentTypeID uint `gorm:"not null;index" json:"document_type_id"`

	StorageKey     string     `gorm:"type:text;not null" json:"storage_key"`
	DocumentName   string     `gorm:"type:varchar(255);not null" json:"document_name"`
	FileSize       int64      `gorm:"not null" json:"file_size"`
	MimeType       string     `gorm:"type:varchar(100);not null" json:"mime_type"`
	DocumentNumber *string    `gorm:"type:varchar(100)" json:"document_number,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`

	Status       DocumentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	SupersededAt *time.Time     `json:"superseded_at,omitempty"`
	WithdrawnAt  *time.Time     `json:"withdrawn_at,omitempty"`

	// 검토 정보
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	RevisionNotes   *string    `gorm:"type:text" json:"revision_notes,omitempty"`

	Application  VendorApplication  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DocumentType DocumentTypeConfig `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (VendorDocument) TableName() string {
	return "vendor_documents"
}

// IsActive reports whether the document currently occupies its slot.
func (d *VendorDocument) IsActive() bool {
	return d.SupersededAt == nil && d.Status != DocumentStatusWithdrawn
}

// CountsAsUploaded reports whether the document counts toward completion.
func (d *VendorDocument) CountsAsUploaded() bool {
	return d.Status == DocumentStatusPending || d.Status == DocumentStatusApproved
}

// ResetReview returns the document to PENDING with review metadata cleared.
func (d *VendorDocument) ResetReview() {
	d.Status = DocumentStatusPending
	d.ReviewedAt = nil
	d.ApprovedAt = nil
	d.RejectedAt = nil
	d.RejectionReason = nil
	d.RevisionNotes = nil
}
