package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/ikkim/vendor-onboarding/internal/errors"
	"github.com/ikkim/vendor-onboarding/internal/lock"
	"github.com/ikkim/vendor-onboarding/internal/middleware"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// serviceErrors maps the onboarding error taxonomy to HTTP responses.
// Order matters only where one error wraps another.
var serviceErrors = []errorMapping{
	{service.ErrApplicationNotFound, http.StatusNotFound, errors.ApplicationNotFound},
	{service.ErrDocumentNotFound, http.StatusNotFound, errors.DocumentNotFound},
	{service.ErrApplicationAccessDenied, http.StatusForbidden, errors.AuthzAccessDenied},
	{service.ErrApplicationLocked, http.StatusForbidden, errors.ApplicationLocked},
	{service.ErrApplicationExists, http.StatusConflict, errors.ApplicationAlreadyExists},
	{service.ErrCountryImmutable, http.StatusConflict, errors.ApplicationCountryImmutable},
	{service.ErrInvalidStatusTransition, http.StatusConflict, errors.ApplicationInvalidTransition},
	{lock.ErrLockTimeout, http.StatusConflict, errors.ResourceConflict},
	{service.ErrCountryNotEligible, http.StatusBadRequest, errors.ApplicationCountryNotEligible},
	{service.ErrVendorTypeNotEligible, http.StatusBadRequest, errors.ApplicationVendorTypeIneligible},
	{service.ErrInvalidReviewDecision, http.StatusBadRequest, errors.ApplicationInvalidReview},
	{service.ErrInvalidDocumentType, http.StatusBadRequest, errors.DocumentTypeNotAllowed},
	{service.ErrInvalidStorageKey, http.StatusBadRequest, errors.DocumentInvalidStorageKey},
	{service.ErrObjectNotUploaded, http.StatusBadRequest, errors.DocumentObjectNotUploaded},
	{service.ErrUnsupportedContentType, http.StatusBadRequest, errors.UploadInvalidFileType},
	{service.ErrFileTooLarge, http.StatusBadRequest, errors.UploadFileTooLarge},
}

// respondServiceError writes the error envelope for err. Unexpected errors are
// logged and reported as internal errors without their detail.
func respondServiceError(c *gin.Context, err error, operation string) {
	log := middleware.GetLoggerFromContext(c)

	var missing *service.MissingFieldsError
	if stderrors.As(err, &missing) {
		log.Warn("Missing required fields", map[string]interface{}{
			"operation": operation,
			"fields":    missing.Fields,
		})
		errors.RespondWithDetails(c, http.StatusBadRequest, errors.ApplicationMissingFields, err.Error(), gin.H{
			"fields": missing.Fields,
		})
		return
	}

	var incomplete *service.IncompleteDocumentsError
	if stderrors.As(err, &incomplete) {
		log.Warn("Required documents missing", map[string]interface{}{
			"operation": operation,
			"missing":   incomplete.Missing,
		})
		errors.RespondWithDetails(c, http.StatusUnprocessableEntity, errors.ApplicationIncompleteDocuments, service.ErrIncompleteDocuments.Error(), gin.H{
			"progress": incomplete.Progress,
			"missing":  incomplete.Missing,
		})
		return
	}

	for _, m := range serviceErrors {
		if stderrors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"operation": operation,
				"code":      m.code,
				"reason":    err.Error(),
			})
			errors.RespondWithError(c, m.status, m.code, err.Error())
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"operation": operation,
	})
	errors.ParseAndRespond(c, http.StatusInternalServerError, err, operation)
}

// currentUserID returns the authenticated subject or writes 401.
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Unauthenticated request reached a protected handler", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		errors.Unauthorized(c, "")
	}
	return userID, ok
}

// parseIDParam reads a positive numeric path parameter or writes 400.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body or writes 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		errors.RespondWithDetails(c, http.StatusBadRequest, errors.ValidationInvalidInput, "Invalid request data", err.Error())
		return false
	}
	return true
}
