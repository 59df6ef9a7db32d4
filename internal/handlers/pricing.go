// Package handlers contains the gin HTTP handlers for the pricing
// engine's internal API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partstream/pricing-engine/internal/pricing"
)

// QuoteRequest is the wire form of a pricing request.
type QuoteRequest struct {
	PartID              int64  `json:"partId" binding:"required,min=1"`
	Quantity            int    `json:"quantity" binding:"omitempty,min=1"`
	PriceTier           string `json:"priceTier,omitempty"`
	Currency            string `json:"currency,omitempty"`
	IncludeAnalytics    bool   `json:"includeAnalytics,omitempty"`
	IncludeTaxBreakdown bool   `json:"includeTaxBreakdown,omitempty"`
	IncludeDiscounts    bool   `json:"includeDiscounts,omitempty"`
}

// Service instance wired at startup.
var pricingService *pricing.Service

// Init registers the pricing service used by the handlers. Called once
// during application startup.
func Init(s *pricing.Service) {
	pricingService = s
}

// GetQuote handles a pricing quote request.
// POST /internal/pricing/quote
func GetQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := pricingService.GetPricing(c.Request.Context(), pricing.Request{
		PartID:              req.PartID,
		Quantity:            req.Quantity,
		Tier:                pricing.PriceTier(req.PriceTier),
		Currency:            pricing.Currency(req.Currency),
		IncludeAnalytics:    req.IncludeAnalytics,
		IncludeTaxBreakdown: req.IncludeTaxBreakdown,
		IncludeDiscounts:    req.IncludeDiscounts,
	})

	// Domain failures keep the uniform response envelope; the HTTP
	// status stays 200 and the caller inspects the success flag.
	c.JSON(http.StatusOK, resp)
}
