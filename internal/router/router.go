package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/controller"
	"github.com/ikkim/vendor-onboarding/internal/middleware"
)

// Tenants issuing tokens for the two audiences of this API
const (
	VendorTenant = "vendor"
	AdminTenant  = "admin"
)

type Router struct {
	referenceController   *controller.ReferenceController
	applicationController *controller.ApplicationController
	documentController    *controller.DocumentController
	uploadController      *controller.UploadController
	reviewController      *controller.ReviewController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	referenceController *controller.ReferenceController,
	applicationController *controller.ApplicationController,
	documentController *controller.DocumentController,
	uploadController *controller.UploadController,
	reviewController *controller.ReviewController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		referenceController:   referenceController,
		applicationController: applicationController,
		documentController:    documentController,
		uploadController:      uploadController,
		reviewController:      reviewController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Vendor onboarding API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		countries := v1.Group("/countries")
		countries.Use(r.authMiddleware.Authenticate())
		{
			countries.GET("", r.referenceController.ListCountries)
			countries.GET("/:id/vendor-types", r.referenceController.ListVendorTypes)
		}

		application := v1.Group("/vendor-application")
		application.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireTenant(VendorTenant),
		)
		{
			application.GET("", r.applicationController.GetMyApplication)
			application.POST("", r.applicationController.CreateApplication)
			application.GET("/requirements", r.applicationController.GetRequirements)
			application.GET("/progress", r.applicationController.GetProgress)
			application.PUT("/:id", r.applicationController.UpdateApplication)
			application.POST("/:id/submit", r.applicationController.SubmitApplication)

			documents := application.Group("/documents")
			{
				documents.POST("/presign", r.uploadController.PresignUpload)
				documents.PUT("", r.documentController.UpsertDocument)
				documents.DELETE("/:id", r.documentController.DeleteDocument)
				documents.GET("/:id/view-url", r.documentController.GetViewURL)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireTenant(AdminTenant),
		)
		{
			admin.POST("/vendor-applications/:id/review", r.reviewController.RecordReview)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
