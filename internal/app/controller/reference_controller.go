package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
)

type ReferenceController struct {
	referenceService service.ReferenceService
}

func NewReferenceController(referenceService service.ReferenceService) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
	}
}

// ListCountries returns the countries open for onboarding
// GET /api/v1/countries
func (ctrl *ReferenceController) ListCountries(c *gin.Context) {
	countries, err := ctrl.referenceService.ListActiveCountries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list countries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"countries": countries,
		"count":     len(countries),
	})
}

// ListVendorTypes returns vendor types a vendor may pick in the country
// GET /api/v1/countries/:id/vendor-types
func (ctrl *ReferenceController) ListVendorTypes(c *gin.Context) {
	countryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	types, err := ctrl.referenceService.ListEligibleVendorTypes(c.Request.Context(), countryID)
	if err != nil {
		respondServiceError(c, err, "list vendor types")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor_types": types,
		"count":        len(types),
	})
}
