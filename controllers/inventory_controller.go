package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/services"
)

// ReceiveStockRequest represents the request body for a manual stock intake.
type ReceiveStockRequest struct {
	PartID   uint    `json:"part_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// ListInventory handles GET /api/v1/inventory
func ListInventory(c *gin.Context) {
	svc := services.NewInventoryService(config.GetDB())
	records, err := svc.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
	})
}

// GetPartInventory handles GET /api/v1/inventory/:partId
func GetPartInventory(c *gin.Context) {
	partID, ok := parseIDParam(c, "partId")
	if !ok {
		return
	}

	svc := services.NewInventoryService(config.GetDB())
	record, err := svc.GetByPart(partID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// ReceiveStock handles POST /api/v1/inventory/receive - manual stock intake.
// Only positive quantities are accepted here; outbound movements happen
// through work-order finalization.
func ReceiveStock(c *gin.Context) {
	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewInventoryService(config.GetDB())
	record, err := svc.Receive(req.PartID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
