package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/ikkim/vendor-onboarding/internal/middleware"
)

type ApplicationController struct {
	applicationService service.ApplicationService
	progressService    service.ProgressService
}

func NewApplicationController(applicationService service.ApplicationService, progressService service.ProgressService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		progressService:    progressService,
	}
}

// GetMyApplication returns the caller's application with its upload progress
// GET /api/v1/vendor-application
func (ctrl *ApplicationController) GetMyApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	app, err := ctrl.applicationService.GetApplication(ctx, userID)
	if err != nil {
		respondServiceError(c, err, "get application")
		return
	}

	progress, err := ctrl.progressService.GetUploadProgress(ctx, app)
	if err != nil {
		respondServiceError(c, err, "get application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"progress":    progress,
	})
}

// CreateApplication starts the caller's onboarding as a DRAFT
// POST /api/v1/vendor-application
func (ctrl *ApplicationController) CreateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.ApplicationFields
	if !bindJSON(c, &req) {
		return
	}

	app, err := ctrl.applicationService.CreateApplication(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "create application")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Vendor application created", map[string]interface{}{
		"application_id": app.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Vendor application created",
		"application": app,
	})
}

// UpdateApplication edits business details while the application is editable
// PUT /api/v1/vendor-application/:id
func (ctrl *ApplicationController) UpdateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ApplicationFields
	if !bindJSON(c, &req) {
		return
	}

	app, err := ctrl.applicationService.UpdateApplication(c.Request.Context(), userID, applicationID, req)
	if err != nil {
		respondServiceError(c, err, "update application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Vendor application updated",
		"application": app,
	})
}

// SubmitApplication locks the application for review
// POST /api/v1/vendor-application/:id/submit
func (ctrl *ApplicationController) SubmitApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	app, err := ctrl.applicationService.SubmitApplication(c.Request.Context(), userID, applicationID)
	if err != nil {
		respondServiceError(c, err, "submit application")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Vendor application submitted", map[string]interface{}{
		"application_id": app.ID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message":     "Vendor application submitted",
		"application": app,
	})
}

// GetRequirements lists allowed document types with their slot state
// GET /api/v1/vendor-application/requirements
func (ctrl *ApplicationController) GetRequirements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	app, err := ctrl.applicationService.GetApplication(ctx, userID)
	if err != nil {
		respondServiceError(c, err, "get requirements")
		return
	}

	requirements, progress, err := ctrl.progressService.GetRequirements(ctx, app)
	if err != nil {
		respondServiceError(c, err, "get requirements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requirements": requirements,
		"progress":     progress,
	})
}

// GetProgress returns the upload progress snapshot
// GET /api/v1/vendor-application/progress
func (ctrl *ApplicationController) GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	app, err := ctrl.applicationService.GetApplication(ctx, userID)
	if err != nil {
		respondServiceError(c, err, "get progress")
		return
	}

	progress, err := ctrl.progressService.GetUploadProgress(ctx, app)
	if err != nil {
		respondServiceError(c, err, "get progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": progress,
	})
}
