package handlers

import (
	"net/http"

	"krishilink/internal/domain/models"
	"krishilink/internal/services"

	"github.com/gin-gonic/gin"
)

// MarketplaceHandler keeps the {success, data} envelope of the flat
// marketplace API.
type MarketplaceHandler struct {
	Service services.MarketplaceService
}

func success(c *gin.Context, status int, data any, extra gin.H) {
	body := gin.H{"success": true, "data": data}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func (h MarketplaceHandler) MandiPrices(c *gin.Context) {
	items, page, err := h.Service.MandiPrices(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, items, gin.H{"pagination": page})
}

func (h MarketplaceHandler) AddMandiPrice(c *gin.Context) {
	var in models.MandiPriceInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.Service.AddMandiPrice(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusCreated, m, nil)
}

func (h MarketplaceHandler) FarmerListings(c *gin.Context) {
	items, page, err := h.Service.FarmerListings(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, items, gin.H{"pagination": page})
}

func (h MarketplaceHandler) AddFarmerListing(c *gin.Context) {
	var in models.FarmerListingInput
	if !bindJSON(c, &in) {
		return
	}
	f, err := h.Service.AddFarmerListing(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusCreated, f, nil)
}

func (h MarketplaceHandler) BuyerRequirements(c *gin.Context) {
	items, page, err := h.Service.BuyerRequirements(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, items, gin.H{"pagination": page})
}

func (h MarketplaceHandler) AddBuyerRequirement(c *gin.Context) {
	var in models.BuyerRequirementInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Service.AddBuyerRequirement(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusCreated, b, nil)
}
