package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/services"
)

// CreateQuoteRequest represents the request body for creating a quote
type CreateQuoteRequest struct {
	VehicleID  uint    `json:"vehicle_id" binding:"required"`
	MechanicID uint    `json:"mechanic_id" binding:"required"`
	UserID     string  `json:"user_id"`
	Total      float64 `json:"total"`
	Note       string  `json:"note"`
}

// UpdateQuoteRequest represents a partial update; omitted fields are ignored.
type UpdateQuoteRequest struct {
	VehicleID  *uint    `json:"vehicle_id"`
	MechanicID *uint    `json:"mechanic_id"`
	Total      *float64 `json:"total"`
	Note       *string  `json:"note"`
}

// CreateQuote handles POST /api/v1/quotes
func CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	quote, err := svc.Create(services.CreateQuoteInput{
		VehicleID:  req.VehicleID,
		MechanicID: req.MechanicID,
		UserID:     req.UserID,
		Total:      req.Total,
		Note:       req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// ListQuotes handles GET /api/v1/quotes
func ListQuotes(c *gin.Context) {
	svc := services.NewQuoteService(config.GetDB())
	quotes, err := svc.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quotes,
	})
}

// GetQuote handles GET /api/v1/quotes/:id
func GetQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	quote, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// UpdateQuote handles PUT /api/v1/quotes/:id
func UpdateQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	quote, err := svc.Update(id, services.UpdateQuoteInput{
		VehicleID:  req.VehicleID,
		MechanicID: req.MechanicID,
		Total:      req.Total,
		Note:       req.Note,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// AddQuotePart handles POST /api/v1/quotes/:id/parts
func AddQuotePart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	line, err := svc.AddPartLine(id, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    line,
	})
}

// AddQuoteService handles POST /api/v1/quotes/:id/services
func AddQuoteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	line, err := svc.AddServiceLine(id, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    line,
	})
}

// RemoveQuotePart handles DELETE /api/v1/quotes/:id/parts/:partId
func RemoveQuotePart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	partID, ok := parseIDParam(c, "partId")
	if !ok {
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	if err := svc.RemovePartLine(id, partID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"removed": true},
	})
}

// RemoveQuoteService handles DELETE /api/v1/quotes/:id/services/:serviceId
func RemoveQuoteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "serviceId")
	if !ok {
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	if err := svc.RemoveServiceLine(id, serviceID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"removed": true},
	})
}

// GetQuoteTotal handles GET /api/v1/quotes/:id/total - computes the quote's
// totals against current catalog prices, rounded for display.
func GetQuoteTotal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	totalParts, totalServices, err := svc.ComputeTotals(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	summary := services.FinalizationSummary{
		TotalParts:    totalParts,
		TotalServices: totalServices,
		FinalTotal:    totalParts + totalServices,
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary.Rounded(),
	})
}

// DeleteQuote handles DELETE /api/v1/quotes/:id
func DeleteQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewQuoteService(config.GetDB())
	removedLines, err := svc.Delete(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted":       true,
			"removed_lines": removedLines,
		},
	})
}
