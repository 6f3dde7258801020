package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
)

type DocumentController struct {
	documentService service.DocumentService
}

func NewDocumentController(documentService service.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// UpsertDocument confirms an uploaded file into its document slot
// PUT /api/v1/vendor-application/documents
func (ctrl *DocumentController) UpsertDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.UpsertDocumentInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.documentService.UpsertDocument(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "upsert document")
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteDocument withdraws a document from its slot
// DELETE /api/v1/vendor-application/documents/:id
func (ctrl *DocumentController) DeleteDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	progress, err := ctrl.documentService.DeleteDocument(c.Request.Context(), userID, documentID)
	if err != nil {
		respondServiceError(c, err, "delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document deleted",
		"progress": progress,
	})
}

// GetViewURL returns a short-lived download URL for the owner
// GET /api/v1/vendor-application/documents/:id/view-url
func (ctrl *DocumentController) GetViewURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := ctrl.documentService.GetDocumentViewURL(c.Request.Context(), userID, documentID)
	if err != nil {
		respondServiceError(c, err, "view document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view_url": url,
	})
}
