package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/internal/storage"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"github.com/juju/clock"
)

var extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

type PresignUploadInput struct {
	DocumentTypeID uint   `json:"document_type_id"`
	FileName       string `json:"file_name"`
	ContentType    string `json:"content_type"`
}

// PresignedUpload is what the client needs to PUT the file and confirm it.
type PresignedUpload struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type UploadService interface {
	PresignUpload(ctx context.Context, userID string, input PresignUploadInput) (*PresignedUpload, error)
}

type uploadService struct {
	appRepo      repository.ApplicationRepository
	requirements RequirementService
	storage      storage.ObjectStorage
	clock        clock.Clock
	cfg          config.OnboardingConfig
}

func NewUploadService(
	appRepo repository.ApplicationRepository,
	requirements RequirementService,
	objectStorage storage.ObjectStorage,
	clk clock.Clock,
	cfg config.OnboardingConfig,
) UploadService {
	return &uploadService{
		appRepo:      appRepo,
		requirements: requirements,
		storage:      objectStorage,
		clock:        clk,
		cfg:          cfg,
	}
}

// PresignUpload mints a slot-scoped key and an upload URL. No document row
// is written; the client confirms through UpsertDocument after the PUT.
func (s *uploadService) PresignUpload(ctx context.Context, userID string, input PresignUploadInput) (*PresignedUpload, error) {
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

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, &MissingFieldsError{Fields: []string{"file_name"}}
	}
	if !isAllowedContentType(s.cfg.AllowedContentTypes, input.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, input.ContentType)
	}

	ext := strings.ToLower(path.Ext(fileName))
	if !extensionPattern.MatchString(ext) {
		ext = ""
	}
	key := documentKeyPrefix(app.ID, input.DocumentTypeID) + uuid.NewString() + ext

	uploadURL, err := s.storage.GenerateUploadURL(ctx, key, input.ContentType, s.cfg.UploadURLExpiry)
	if err != nil {
		logger.Error("Failed to generate upload URL", err, map[string]interface{}{
			"application_id":   app.ID,
			"document_type_id": input.DocumentTypeID,
		})
		return nil, fmt.Errorf("generate upload url: %w", err)
	}

	logger.Info("Presigned document upload", map[string]interface{}{
		"application_id":   app.ID,
		"document_type_id": input.DocumentTypeID,
		"storage_key":      key,
	})
	return &PresignedUpload{
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  s.clock.Now().Add(s.cfg.UploadURLExpiry),
	}, nil
}
