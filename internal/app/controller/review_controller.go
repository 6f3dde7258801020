package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
)

type ReviewController struct {
	applicationService service.ApplicationService
}

func NewReviewController(applicationService service.ApplicationService) *ReviewController {
	return &ReviewController{
		applicationService: applicationService,
	}
}

// RecordReview records an admin review outcome
// POST /api/v1/admin/vendor-applications/:id/review
func (ctrl *ReviewController) RecordReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ReviewDecision
	if !bindJSON(c, &req) {
		return
	}

	app, err := ctrl.applicationService.RecordReview(c.Request.Context(), applicationID, reviewerID, req)
	if err != nil {
		respondServiceError(c, err, "record review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Review recorded",
		"application": app,
	})
}
