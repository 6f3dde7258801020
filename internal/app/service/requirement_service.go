package service

import (
	"context"
	"fmt"

	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
)

// AllowedDocumentType is a document type applicable to an application.
type AllowedDocumentType struct {
	DocumentTypeID uint   `json:"document_type_id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Description    string `json:"description,omitempty"`
	IsRequired     bool   `json:"is_required"`
}

// RequirementService resolves which document types apply to an application's
// country and vendor type, and which of them are mandatory.
type RequirementService interface {
	GetAllowedTypes(ctx context.Context, app *model.VendorApplication) ([]AllowedDocumentType, error)
	FindAllowedType(ctx context.Context, app *model.VendorApplication, documentTypeID uint) (*AllowedDocumentType, error)
}

type requirementService struct {
	referenceRepo repository.ReferenceRepository
}

func NewRequirementService(referenceRepo repository.ReferenceRepository) RequirementService {
	return &requirementService{referenceRepo: referenceRepo}
}

// GetAllowedTypes returns an empty list, not an error, when nothing applies.
func (s *requirementService) GetAllowedTypes(ctx context.Context, app *model.VendorApplication) ([]AllowedDocumentType, error) {
	rows, err := s.referenceRepo.FindAllowedDocumentTypes(ctx, app.CountryID, app.VendorTypeID)
	if err != nil {
		logger.Error("Failed to resolve allowed document types", err, map[string]interface{}{
			"application_id": app.ID,
			"country_id":     app.CountryID,
			"vendor_type_id": app.VendorTypeID,
		})
		return nil, fmt.Errorf("resolve allowed document types: %w", err)
	}

	allowed := make([]AllowedDocumentType, 0, len(rows))
	for _, row := range rows {
		allowed = append(allowed, AllowedDocumentType{
			DocumentTypeID: row.DocumentTypeID,
			Name:           row.Name,
			Code:           row.Code,
			Description:    row.Description,
			IsRequired:     row.IsRequired != nil && *row.IsRequired,
		})
	}
	return allowed, nil
}

func (s *requirementService) FindAllowedType(ctx context.Context, app *model.VendorApplication, documentTypeID uint) (*AllowedDocumentType, error) {
	allowed, err := s.GetAllowedTypes(ctx, app)
	if err != nil {
		return nil, err
	}
	for i := range allowed {
		if allowed[i].DocumentTypeID == documentTypeID {
			return &allowed[i], nil
		}
	}

	logger.Warn("Document type not allowed for application", map[string]interface{}{
		"application_id":   app.ID,
		"document_type_id": documentTypeID,
	})
	return nil, fmt.Errorf("%w: document type %d", ErrInvalidDocumentType, documentTypeID)
}
