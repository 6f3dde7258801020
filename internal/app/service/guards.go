package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"gorm.io/gorm"
)

// loadUserApplication returns the caller's application (one per user).
func loadUserApplication(ctx context.Context, repo repository.ApplicationRepository, userID string) (*model.VendorApplication, error) {
	app, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		logger.Error("Failed to fetch vendor application by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("load vendor application: %w", err)
	}
	return app, nil
}

// loadOwnedApplication fetches an application by id and checks the owner.
func loadOwnedApplication(ctx context.Context, repo repository.ApplicationRepository, userID string, applicationID uint) (*model.VendorApplication, error) {
	app, err := repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		logger.Error("Failed to fetch vendor application", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, fmt.Errorf("load vendor application: %w", err)
	}
	if app.UserID != userID {
		logger.Warn("Vendor application access denied", map[string]interface{}{
			"application_id": applicationID,
			"user_id":        userID,
		})
		return nil, ErrApplicationAccessDenied
	}
	return app, nil
}

func ensureEditable(app *model.VendorApplication) error {
	if !app.IsEditable() {
		return fmt.Errorf("%w: application is %s", ErrApplicationLocked, app.Status)
	}
	return nil
}

// documentKeyPrefix is the storage namespace of one document slot.
func documentKeyPrefix(applicationID, documentTypeID uint) string {
	return fmt.Sprintf("vendor-applications/%d/documents/%d/", applicationID, documentTypeID)
}

func isAllowedContentType(allowed []string, contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(a, mediaType) {
			return true
		}
	}
	return false
}

// isUniqueViolation detects a unique index conflict across postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
