package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrApplicationNotFound     = errors.New("vendor application not found")
	ErrApplicationExists       = errors.New("vendor application already exists for this user")
	ErrApplicationAccessDenied = errors.New("vendor application belongs to another user")
	ErrApplicationLocked       = errors.New("vendor application is locked for editing")
	ErrCountryImmutable        = errors.New("country cannot be changed after the application is created")
	ErrCountryNotEligible      = errors.New("country is not open for vendor onboarding")
	ErrVendorTypeNotEligible   = errors.New("vendor type is not available in this country")
	ErrMissingRequiredFields   = errors.New("required fields are missing")
	ErrIncompleteDocuments     = errors.New("required documents are missing")
	ErrInvalidReviewDecision   = errors.New("invalid review decision")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")

	ErrDocumentNotFound       = errors.New("vendor document not found")
	ErrInvalidDocumentType    = errors.New("document type is not allowed for this application")
	ErrInvalidStorageKey      = errors.New("storage key does not belong to this document slot")
	ErrObjectNotUploaded      = errors.New("uploaded file was not found in storage")
	ErrUnsupportedContentType = errors.New("content type is not allowed")
	ErrFileTooLarge           = errors.New("file exceeds the maximum allowed size")
)

// MissingFieldsError names the business fields that failed validation.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredFields, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingRequiredFields
}

// IncompleteDocumentsError carries the progress snapshot that blocked submission.
type IncompleteDocumentsError struct {
	Progress UploadProgress
	Missing  []string // names of required document types not yet uploaded
}

func (e *IncompleteDocumentsError) Error() string {
	return fmt.Sprintf("%s: %d of %d uploaded (missing: %s)",
		ErrIncompleteDocuments,
		e.Progress.UploadedRequired,
		e.Progress.RequiredTotal,
		strings.Join(e.Missing, ", "))
}

func (e *IncompleteDocumentsError) Is(target error) bool {
	return target == ErrIncompleteDocuments
}
