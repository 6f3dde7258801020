package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/ikkim/vendor-onboarding/internal/middleware"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{
		uploadService: uploadService,
	}
}

type PresignUploadRequest struct {
	DocumentTypeID uint   `json:"document_type_id" binding:"required"`
	FileName       string `json:"file_name" binding:"required"`
	ContentType    string `json:"content_type" binding:"required"`
}

// PresignUpload issues an upload URL and storage key for a document slot
// POST /api/v1/vendor-application/documents/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PresignUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	presigned, err := ctrl.uploadService.PresignUpload(c.Request.Context(), userID, service.PresignUploadInput{
		DocumentTypeID: req.DocumentTypeID,
		FileName:       req.FileName,
		ContentType:    req.ContentType,
	})
	if err != nil {
		respondServiceError(c, err, "presign upload")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Presigned URL generated successfully", map[string]interface{}{
		"document_type_id": req.DocumentTypeID,
		"key":              presigned.StorageKey,
	})
	c.JSON(http.StatusOK, presigned)
}
