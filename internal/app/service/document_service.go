package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/internal/lock"
	"github.com/ikkim/vendor-onboarding/internal/storage"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"github.com/juju/clock"
	"gorm.io/gorm"
)

// UpsertDocumentInput is the metadata confirmed after a direct upload.
type UpsertDocumentInput struct {
	DocumentTypeID uint       `json:"document_type_id"`
	StorageKey     string     `json:"storage_key"`
	DocumentName   string     `json:"document_name"`
	FileSize       int64      `json:"file_size"`
	MimeType       string     `json:"mime_type"`
	DocumentNumber *string    `json:"document_number"`
	IssueDate      *time.Time `json:"issue_date"`
	ExpiryDate     *time.Time `json:"expiry_date"`
}

// DocumentResult is the stored document and the progress after the change.
type DocumentResult struct {
	Document *model.VendorDocument `json:"document"`
	Progress *UploadProgress       `json:"progress"`
}

type DocumentService interface {
	UpsertDocument(ctx context.Context, userID string, input UpsertDocumentInput) (*DocumentResult, error)
	DeleteDocument(ctx context.Context, userID string, documentID uint) (*UploadProgress, error)
	GetDocumentViewURL(ctx context.Context, userID string, documentID uint) (string, error)
	PurgeWithdrawnDocuments(ctx context.Context, olderThan time.Time) (int64, error)
}

type documentService struct {
	appRepo      repository.ApplicationRepository
	documentRepo repository.DocumentRepository
	requirements RequirementService
	progress     ProgressService
	storage      storage.ObjectStorage
	locker       lock.SlotLocker
	clock        clock.Clock
	cfg          config.OnboardingConfig
}

func NewDocumentService(
	appRepo repository.ApplicationRepository,
	documentRepo repository.DocumentRepository,
	requirements RequirementService,
	progress ProgressService,
	objectStorage storage.ObjectStorage,
	locker lock.SlotLocker,
	clk clock.Clock,
	cfg config.OnboardingConfig,
) DocumentService {
	return &documentService{
		appRepo:      appRepo,
		documentRepo: documentRepo,
		requirements: requirements,
		progress:     progress,
		storage:      objectStorage,
		locker:       locker,
		clock:        clk,
		cfg:          cfg,
	}
}

func (s *documentService) validateInput(app *model.VendorApplication, input *UpsertDocumentInput) error {
	input.StorageKey = strings.TrimSpace(input.StorageKey)
	input.DocumentName = strings.TrimSpace(input.DocumentName)
	input.MimeType = strings.TrimSpace(input.MimeType)

	missing := &MissingFieldsError{}
	if input.StorageKey == "" {
		missing.Fields = append(missing.Fields, "storage_key")
	}
	if input.DocumentName == "" {
		missing.Fields = append(missing.Fields, "document_name")
	}
	if input.FileSize <= 0 {
		missing.Fields = append(missing.Fields, "file_size")
	}
	if input.MimeType == "" {
		missing.Fields = append(missing.Fields, "mime_type")
	}
	if len(missing.Fields) > 0 {
		return missing
	}

	if !isAllowedContentType(s.cfg.AllowedContentTypes, input.MimeType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, input.MimeType)
	}
	if s.cfg.MaxFileSize > 0 && input.FileSize > s.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, input.FileSize, s.cfg.MaxFileSize)
	}
	prefix := documentKeyPrefix(app.ID, input.DocumentTypeID)
	if !strings.HasPrefix(input.StorageKey, prefix) || len(input.StorageKey) == len(prefix) {
		return fmt.Errorf("%w: %s", ErrInvalidStorageKey, input.StorageKey)
	}
	return nil
}

func (s *documentService) UpsertDocument(ctx context.Context, userID string, input UpsertDocumentInput) (*DocumentResult, error) {
	app, err := loadUserApplication(ctx, s.appRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(app); err != nil {
		return nil, err
	}
	if _, err := s.requirements.FindAllowedType(ctx, app, input.DocumentTypeID); err != nil {
		return nil, err
	}
	if err := s.validateInput(app, &input); err != nil {
		logger.Warn("Vendor document rejected", map[string]interface{}{
			"application_id":   app.ID,
			"document_type_id": input.DocumentTypeID,
			"reason":           err.Error(),
		})
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, input.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("check uploaded object: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotUploaded, input.StorageKey)
	}

	doc, previousKey, err := s.writeSlot(ctx, app.ID, input)
	if err != nil {
		return nil, err
	}

	if previousKey != "" && previousKey != doc.StorageKey {
		if err := s.storage.DeleteObject(ctx, previousKey); err != nil {
			logger.Warn("Failed to delete replaced document object", map[string]interface{}{
				"document_id": doc.ID,
				"storage_key": previousKey,
				"error":       err.Error(),
			})
		}
	}

	progress, err := s.progress.GetUploadProgress(ctx, app)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Document: doc, Progress: progress}, nil
}

// writeSlot replaces the slot's active document in place or inserts one.
// It returns the storage key the slot held before, if any.
func (s *documentService) writeSlot(ctx context.Context, applicationID uint, input UpsertDocumentInput) (*model.VendorDocument, string, error) {
	unlock, err := s.locker.Lock(ctx, lock.SlotKey(applicationID, input.DocumentTypeID))
	if err != nil {
		return nil, "", fmt.Errorf("lock document slot: %w", err)
	}
	defer unlock()

	existing, err := s.documentRepo.FindActiveBySlot(ctx, applicationID, input.DocumentTypeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("find active document: %w", err)
	}

	if existing == nil {
		doc := &model.VendorDocument{
			ApplicationID:  applicationID,
			DocumentTypeID: input.DocumentTypeID,
		}
		applyDocumentInput(doc, input)
		err := s.documentRepo.Create(ctx, doc)
		if err == nil {
			logger.Info("Vendor document created", map[string]interface{}{
				"document_id":      doc.ID,
				"application_id":   applicationID,
				"document_type_id": input.DocumentTypeID,
			})
			return doc, "", nil
		}
		if !isUniqueViolation(err) {
			return nil, "", fmt.Errorf("create vendor document: %w", err)
		}

		// Another instance filled the slot first; replace its document instead.
		existing, err = s.documentRepo.FindActiveBySlot(ctx, applicationID, input.DocumentTypeID)
		if err != nil {
			return nil, "", fmt.Errorf("reload active document: %w", err)
		}
	}

	previousKey := existing.StorageKey
	applyDocumentInput(existing, input)
	if err := s.documentRepo.Update(ctx, existing); err != nil {
		return nil, "", fmt.Errorf("replace vendor document: %w", err)
	}
	logger.Info("Vendor document replaced", map[string]interface{}{
		"document_id":      existing.ID,
		"application_id":   applicationID,
		"document_type_id": input.DocumentTypeID,
	})
	return existing, previousKey, nil
}

func applyDocumentInput(doc *model.VendorDocument, input UpsertDocumentInput) {
	doc.StorageKey = input.StorageKey
	doc.DocumentName = input.DocumentName
	doc.FileSize = input.FileSize
	doc.MimeType = input.MimeType
	doc.DocumentNumber = input.DocumentNumber
	doc.IssueDate = input.IssueDate
	doc.ExpiryDate = input.ExpiryDate
	doc.ResetReview()
}

// loadOwnedDocument returns an active document and its application.
func (s *documentService) loadOwnedDocument(ctx context.Context, userID string, documentID uint) (*model.VendorDocument, *model.VendorApplication, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("load vendor document: %w", err)
	}
	if !doc.IsActive() {
		return nil, nil, ErrDocumentNotFound
	}

	app, err := loadOwnedApplication(ctx, s.appRepo, userID, doc.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	return doc, app, nil
}

// DeleteDocument withdraws the document. The row is kept for audit until
// PurgeWithdrawnDocuments removes it.
func (s *documentService) DeleteDocument(ctx context.Context, userID string, documentID uint) (*UploadProgress, error) {
	doc, app, err := s.loadOwnedDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(app); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, lock.SlotKey(app.ID, doc.DocumentTypeID))
	if err != nil {
		return nil, fmt.Errorf("lock document slot: %w", err)
	}
	defer unlock()

	// An upsert may have replaced the slot while the lock was pending.
	doc, err = s.documentRepo.FindByID(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("reload vendor document: %w", err)
	}
	if !doc.IsActive() {
		return nil, ErrDocumentNotFound
	}

	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		logger.Warn("Failed to delete document object", map[string]interface{}{
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}

	if err := s.documentRepo.Withdraw(ctx, doc.ID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("withdraw vendor document: %w", err)
	}

	logger.Info("Vendor document withdrawn", map[string]interface{}{
		"document_id":    doc.ID,
		"application_id": app.ID,
	})
	return s.progress.GetUploadProgress(ctx, app)
}

func (s *documentService) GetDocumentViewURL(ctx context.Context, userID string, documentID uint) (string, error) {
	doc, _, err := s.loadOwnedDocument(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GenerateViewURL(ctx, doc.StorageKey, s.cfg.ViewURLExpiry)
	if err != nil {
		logger.Error("Failed to generate document view URL", err, map[string]interface{}{
			"document_id": doc.ID,
		})
		return "", fmt.Errorf("generate view url: %w", err)
	}
	return url, nil
}

func (s *documentService) PurgeWithdrawnDocuments(ctx context.Context, olderThan time.Time) (int64, error) {
	purged, err := s.documentRepo.DeleteWithdrawnBefore(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge withdrawn documents: %w", err)
	}
	if purged > 0 {
		logger.Info("Purged withdrawn vendor documents", map[string]interface{}{
			"count":  purged,
			"cutoff": olderThan,
		})
	}
	return purged, nil
}
