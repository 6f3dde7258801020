package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/vendor-onboarding/internal/app/model"
	"github.com/ikkim/vendor-onboarding/internal/app/repository"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"github.com/juju/clock"
	"gorm.io/gorm"
)

// ApplicationFields is the vendor-editable part of an application.
type ApplicationFields struct {
	CountryID          uint    `json:"country_id" validate:"required"`
	VendorTypeID       uint    `json:"vendor_type_id" validate:"required"`
	OtherVendorType    *string `json:"other_vendor_type"`
	BusinessName       string  `json:"business_name" validate:"required"`
	RegistrationNumber string  `json:"registration_number"`
	TaxID              string  `json:"tax_id"`
	BusinessEmail      string  `json:"business_email"`
	BusinessPhone      string  `json:"business_phone"`
	OwnerName          string  `json:"owner_name" validate:"required"`
	OwnerEmail         string  `json:"owner_email"`
	OwnerPhone         string  `json:"owner_phone" validate:"required"`
	AddressLine1       string  `json:"address_line1" validate:"required"`
	AddressLine2       string  `json:"address_line2"`
	City               string  `json:"city" validate:"required"`
	State              string  `json:"state"`
	PostalCode         string  `json:"postal_code"`
}

// ReviewDecision is the outcome recorded by the admin review workflow.
type ReviewDecision struct {
	Status          model.ApplicationStatus `json:"status"`
	RejectionReason string                  `json:"rejection_reason"`
	RevisionNotes   string                  `json:"revision_notes"`
}

// reviewSources lists the statuses each review outcome may be recorded from.
var reviewSources = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusReviewed: {model.ApplicationStatusSubmitted},
	model.ApplicationStatusApproved: {model.ApplicationStatusSubmitted, model.ApplicationStatusReviewed},
	model.ApplicationStatusRejected: {model.ApplicationStatusSubmitted, model.ApplicationStatusReviewed},
}

var editableStatuses = []model.ApplicationStatus{
	model.ApplicationStatusDraft,
	model.ApplicationStatusRejected,
}

type ApplicationService interface {
	GetApplication(ctx context.Context, userID string) (*model.VendorApplication, error)
	GetApplicationByID(ctx context.Context, applicationID uint) (*model.VendorApplication, error)
	CreateApplication(ctx context.Context, userID string, fields ApplicationFields) (*model.VendorApplication, error)
	UpdateApplication(ctx context.Context, userID string, applicationID uint, fields ApplicationFields) (*model.VendorApplication, error)
	SubmitApplication(ctx context.Context, userID string, applicationID uint) (*model.VendorApplication, error)
	RecordReview(ctx context.Context, applicationID uint, reviewerID string, decision ReviewDecision) (*model.VendorApplication, error)
}

type applicationService struct {
	appRepo       repository.ApplicationRepository
	referenceRepo repository.ReferenceRepository
	progress      ProgressService
	clock         clock.Clock
	validate      *validator.Validate
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	referenceRepo repository.ReferenceRepository,
	progress ProgressService,
	clk clock.Clock,
) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		referenceRepo: referenceRepo,
		progress:      progress,
		clock:         clk,
		validate:      newFieldValidator(),
	}
}

// newFieldValidator reports fields by their JSON names.
func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// trimmed returns a copy with surrounding whitespace removed from every text field.
func (f ApplicationFields) trimmed() ApplicationFields {
	for _, field := range []*string{
		&f.BusinessName, &f.RegistrationNumber, &f.TaxID, &f.BusinessEmail, &f.BusinessPhone,
		&f.OwnerName, &f.OwnerEmail, &f.OwnerPhone,
		&f.AddressLine1, &f.AddressLine2, &f.City, &f.State, &f.PostalCode,
	} {
		*field = strings.TrimSpace(*field)
	}
	return f
}

func (s *applicationService) validateFields(fields ApplicationFields) error {
	err := s.validate.Struct(fields.trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate application fields: %w", err)
	}
	missing := &MissingFieldsError{}
	for _, fe := range verrs {
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}

// resolveVendorType checks onboarding eligibility of the pair and normalises
// the free-text vendor type.
func (s *applicationService) resolveVendorType(ctx context.Context, fields *ApplicationFields) error {
	country, err := s.referenceRepo.FindCountryByID(ctx, fields.CountryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: country %d", ErrCountryNotEligible, fields.CountryID)
		}
		return fmt.Errorf("load country: %w", err)
	}
	if country.Status != model.RecordStatusActive {
		return fmt.Errorf("%w: %s", ErrCountryNotEligible, country.Name)
	}

	vendorType, err := s.referenceRepo.FindEligibleVendorType(ctx, fields.CountryID, fields.VendorTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: vendor type %d in %s", ErrVendorTypeNotEligible, fields.VendorTypeID, country.Name)
		}
		return fmt.Errorf("load vendor type: %w", err)
	}

	if vendorType.IsOther() {
		if fields.OtherVendorType == nil || strings.TrimSpace(*fields.OtherVendorType) == "" {
			return &MissingFieldsError{Fields: []string{"other_vendor_type"}}
		}
		trimmed := strings.TrimSpace(*fields.OtherVendorType)
		fields.OtherVendorType = &trimmed
	} else {
		fields.OtherVendorType = nil
	}
	return nil
}

func applyFields(app *model.VendorApplication, fields ApplicationFields) {
	app.CountryID = fields.CountryID
	app.VendorTypeID = fields.VendorTypeID
	app.OtherVendorType = fields.OtherVendorType
	app.BusinessName = strings.TrimSpace(fields.BusinessName)
	app.RegistrationNumber = strings.TrimSpace(fields.RegistrationNumber)
	app.TaxID = strings.TrimSpace(fields.TaxID)
	app.BusinessEmail = strings.TrimSpace(fields.BusinessEmail)
	app.BusinessPhone = strings.TrimSpace(fields.BusinessPhone)
	app.OwnerName = strings.TrimSpace(fields.OwnerName)
	app.OwnerEmail = strings.TrimSpace(fields.OwnerEmail)
	app.OwnerPhone = strings.TrimSpace(fields.OwnerPhone)
	app.AddressLine1 = strings.TrimSpace(fields.AddressLine1)
	app.AddressLine2 = strings.TrimSpace(fields.AddressLine2)
	app.City = strings.TrimSpace(fields.City)
	app.State = strings.TrimSpace(fields.State)
	app.PostalCode = strings.TrimSpace(fields.PostalCode)
}

func (s *applicationService) GetApplication(ctx context.Context, userID string) (*model.VendorApplication, error) {
	return loadUserApplication(ctx, s.appRepo, userID)
}

func (s *applicationService) GetApplicationByID(ctx context.Context, applicationID uint) (*model.VendorApplication, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("load vendor application: %w", err)
	}
	return app, nil
}

func (s *applicationService) CreateApplication(ctx context.Context, userID string, fields ApplicationFields) (*model.VendorApplication, error) {
	logger.Info("Creating vendor application", map[string]interface{}{
		"user_id":        userID,
		"country_id":     fields.CountryID,
		"vendor_type_id": fields.VendorTypeID,
	})

	if err := s.validateFields(fields); err != nil {
		return nil, err
	}

	if _, err := s.appRepo.FindByUserID(ctx, userID); err == nil {
		return nil, ErrApplicationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing application: %w", err)
	}

	if err := s.resolveVendorType(ctx, &fields); err != nil {
		logger.Warn("Vendor application rejected", map[string]interface{}{
			"user_id": userID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	app := &model.VendorApplication{
		UserID: userID,
		Status: model.ApplicationStatusDraft,
	}
	applyFields(app, fields)

	if err := s.appRepo.Create(ctx, app); err != nil {
		// A concurrent create for the same user loses on the unique user_id index
		if isUniqueViolation(err) {
			return nil, ErrApplicationExists
		}
		return nil, fmt.Errorf("create vendor application: %w", err)
	}

	logger.Info("Vendor application created", map[string]interface{}{
		"application_id": app.ID,
		"user_id":        userID,
	})
	return s.GetApplicationByID(ctx, app.ID)
}

func (s *applicationService) UpdateApplication(ctx context.Context, userID string, applicationID uint, fields ApplicationFields) (*model.VendorApplication, error) {
	app, err := loadOwnedApplication(ctx, s.appRepo, userID, applicationID)
	if err != nil {
		return nil, err
	}

	if fields.CountryID == 0 {
		fields.CountryID = app.CountryID
	}
	if fields.CountryID != app.CountryID {
		logger.Warn("Attempt to change application country", map[string]interface{}{
			"application_id": app.ID,
			"from":           app.CountryID,
			"to":             fields.CountryID,
		})
		return nil, ErrCountryImmutable
	}

	if err := ensureEditable(app); err != nil {
		return nil, err
	}
	if err := s.validateFields(fields); err != nil {
		return nil, err
	}
	if err := s.resolveVendorType(ctx, &fields); err != nil {
		return nil, err
	}

	previous := app.Status
	applyFields(app, fields)
	if app.Status == model.ApplicationStatusRejected {
		app.Status = model.ApplicationStatusDraft
		app.ClearReview()
	}

	changed, err := s.appRepo.Update(ctx, app, []model.ApplicationStatus{previous})
	if err != nil {
		return nil, fmt.Errorf("update vendor application: %w", err)
	}
	if !changed {
		current, err := s.GetApplicationByID(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		return nil, lostTransitionError(current)
	}

	logger.Info("Vendor application updated", map[string]interface{}{
		"application_id": app.ID,
		"from_status":    previous,
		"status":         app.Status,
	})
	return s.GetApplicationByID(ctx, app.ID)
}

func (s *applicationService) SubmitApplication(ctx context.Context, userID string, applicationID uint) (*model.VendorApplication, error) {
	app, err := loadOwnedApplication(ctx, s.appRepo, userID, applicationID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(app); err != nil {
		return nil, err
	}

	statuses, progress, err := s.progress.GetRequirements(ctx, app)
	if err != nil {
		return nil, err
	}
	if !progress.IsComplete {
		logger.Warn("Vendor application submitted with missing documents", map[string]interface{}{
			"application_id":    app.ID,
			"required_total":    progress.RequiredTotal,
			"uploaded_required": progress.UploadedRequired,
		})
		return nil, &IncompleteDocumentsError{Progress: *progress, Missing: missingRequired(statuses)}
	}

	now := s.clock.Now()
	changed, err := s.appRepo.TransitionStatus(ctx, app.ID, editableStatuses, map[string]interface{}{
		"status":       model.ApplicationStatusSubmitted,
		"submitted_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("submit vendor application: %w", err)
	}
	if !changed {
		current, err := s.GetApplicationByID(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		return nil, lostTransitionError(current)
	}

	logger.Info("Vendor application submitted", map[string]interface{}{
		"application_id": app.ID,
		"user_id":        userID,
	})
	return s.GetApplicationByID(ctx, app.ID)
}

// lostTransitionError reports why a conditional transition matched no row: the
// application left the editable states after it was read.
func lostTransitionError(app *model.VendorApplication) error {
	if err := ensureEditable(app); err != nil {
		return err
	}
	return fmt.Errorf("%w: application changed concurrently", ErrInvalidStatusTransition)
}

func (s *applicationService) RecordReview(ctx context.Context, applicationID uint, reviewerID string, decision ReviewDecision) (*model.VendorApplication, error) {
	sources, ok := reviewSources[decision.Status]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReviewDecision, decision.Status)
	}
	reason := strings.TrimSpace(decision.RejectionReason)
	if decision.Status == model.ApplicationStatusRejected && reason == "" {
		return nil, &MissingFieldsError{Fields: []string{"rejection_reason"}}
	}

	app, err := s.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":           decision.Status,
		"reviewed_at":      s.clock.Now(),
		"reviewed_by":      reviewerID,
		"rejection_reason": nil,
		"revision_notes":   nil,
	}
	if decision.Status == model.ApplicationStatusRejected {
		updates["rejection_reason"] = reason
	}
	if notes := strings.TrimSpace(decision.RevisionNotes); notes != "" {
		updates["revision_notes"] = notes
	}

	changed, err := s.appRepo.TransitionStatus(ctx, app.ID, sources, updates)
	if err != nil {
		return nil, fmt.Errorf("record review: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, app.Status, decision.Status)
	}

	logger.Info("Vendor application reviewed", map[string]interface{}{
		"application_id": app.ID,
		"reviewer_id":    reviewerID,
		"status":         decision.Status,
	})
	return s.GetApplicationByID(ctx, app.ID)
}
