package repository

import (
	"context"
	"time"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.VendorDocument) error
	Update(ctx context.Context, doc *model.VendorDocument) error
	FindByID(ctx context.Context, id uint) (*model.VendorDocument, error)
	FindActiveBySlot(ctx context.Context, applicationID, documentTypeID uint) (*model.VendorDocument, error)
	FindActiveByApplication(ctx context.Context, applicationID uint) ([]model.VendorDocument, error)
	FindUploadedByApplication(ctx context.Context, applicationID uint) ([]model.VendorDocument, error)
	Withdraw(ctx context.Context, id uint, at time.Time) error
	DeleteWithdrawnBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.VendorDocument{}).
		Where("superseded_at IS NULL").
		Where("status <> ?", model.DocumentStatusWithdrawn)
}

func (r *documentRepository) Create(ctx context.Context, doc *model.VendorDocument) error {
	logger.Debug("Creating vendor document in database", map[string]interface{}{
		"application_id":   doc.ApplicationID,
		"document_type_id": doc.DocumentTypeID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error; err != nil {
		logger.Warn("Failed to create vendor document in database", map[string]interface{}{
			"application_id":   doc.ApplicationID,
			"document_type_id": doc.DocumentTypeID,
			"error":            err.Error(),
		})
		return err
	}
	return nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.VendorDocument) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(doc).Error; err != nil {
		logger.Error("Failed to update vendor document in database", err, map[string]interface{}{
			"document_id": doc.ID,
		})
		return err
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*model.VendorDocument, error) {
	var doc model.VendorDocument
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindActiveBySlot(ctx context.Context, applicationID, documentTypeID uint) (*model.VendorDocument, error) {
	var doc model.VendorDocument
	if err := r.active(ctx).
		Where("application_id = ? AND document_type_id = ?", applicationID, documentTypeID).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindActiveByApplication(ctx context.Context, applicationID uint) ([]model.VendorDocument, error) {
	var docs []model.VendorDocument
	if err := r.active(ctx).
		Where("application_id = ?", applicationID).
		Order("updated_at DESC, id DESC").
		Find(&docs).Error; err != nil {
		logger.Error("Failed to find active vendor documents in database", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}
	return docs, nil
}

// FindUploadedByApplication returns active documents that count toward
// completion, most recent first.
func (r *documentRepository) FindUploadedByApplication(ctx context.Context, applicationID uint) ([]model.VendorDocument, error) {
	var docs []model.VendorDocument
	if err := r.active(ctx).
		Where("application_id = ?", applicationID).
		Where("status IN ?", model.UploadedDocumentStatuses).
		Order("updated_at DESC, id DESC").
		Find(&docs).Error; err != nil {
		logger.Error("Failed to find uploaded vendor documents in database", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Withdraw(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&model.VendorDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.DocumentStatusWithdrawn,
			"withdrawn_at": at,
		}).Error; err != nil {
		logger.Error("Failed to withdraw vendor document in database", err, map[string]interface{}{
			"document_id": id,
		})
		return err
	}
	return nil
}

// DeleteWithdrawnBefore hard deletes withdrawn documents older than cutoff.
func (r *documentRepository) DeleteWithdrawnBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND withdrawn_at < ?", model.DocumentStatusWithdrawn, cutoff).
		Delete(&model.VendorDocument{})
	if result.Error != nil {
		logger.Error("Failed to purge withdrawn vendor documents", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
