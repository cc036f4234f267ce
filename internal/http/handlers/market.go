package handlers

import (
	"net/http"

	"krishilink/internal/domain/models"
	"krishilink/internal/services"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	Service services.MarketService
}

// GET /api/market-prices
func (h MarketHandler) List(c *gin.Context) {
	res, err := h.Service.List(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/market-prices/trends/:crop
func (h MarketHandler) Trend(c *gin.Context) {
	crop := c.Param("crop")
	points, err := h.Service.Trend(c.Request.Context(), crop, queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crop": crop, "trends": points})
}

// GET /api/market-prices/report returns the price sheet inline.
func (h MarketHandler) Report(c *gin.Context) {
	pdf, filename, err := h.Service.Report(c.Request.Context(), queryParams(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// POST /api/market-prices
func (h MarketHandler) Create(c *gin.Context) {
	var in models.MarketPriceInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
