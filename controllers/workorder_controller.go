package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
	"github.com/rafael-duarte/oficina-api/services"
)

// CreateWorkOrderRequest represents the request body for opening a work order.
// UserID is the operator reference; empty or "admin" means anonymous.
type CreateWorkOrderRequest struct {
	VehicleID  uint    `json:"vehicle_id" binding:"required"`
	MechanicID uint    `json:"mechanic_id" binding:"required"`
	UserID     string  `json:"user_id"`
	Total      float64 `json:"total"`
	Note       string  `json:"note"`
}

// UpdateWorkOrderRequest represents a partial update; omitted fields are ignored.
type UpdateWorkOrderRequest struct {
	VehicleID  *uint    `json:"vehicle_id"`
	MechanicID *uint    `json:"mechanic_id"`
	Total      *float64 `json:"total"`
	Note       *string  `json:"note"`
}

// AddLineRequest represents the request body for attaching a part or service line.
type AddLineRequest struct {
	ItemID   uint    `json:"item_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// FinalizeRequest represents the request body for closing a work order.
type FinalizeRequest struct {
	PaymentMethod       string  `json:"payment_method" binding:"required"`
	DiscountPartsPct    float64 `json:"discount_parts_pct"`
	DiscountServicesPct float64 `json:"discount_services_pct"`
}

// CreateWorkOrder handles POST /api/v1/work-orders
func CreateWorkOrder(c *gin.Context) {
	var req CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	order, err := svc.Create(services.CreateWorkOrderInput{
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
		"data":    order,
	})
}

// ListWorkOrders handles GET /api/v1/work-orders?status=open|closed
func ListWorkOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.WorkOrderStatusOpen && status != models.WorkOrderStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "status must be 'open' or 'closed'",
			},
		})
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	orders, err := svc.List(status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetWorkOrder handles GET /api/v1/work-orders/:id
func GetWorkOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	order, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateWorkOrder handles PUT /api/v1/work-orders/:id
func UpdateWorkOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	order, err := svc.Update(id, services.UpdateWorkOrderInput{
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
		"data":    order,
	})
}

// DeleteWorkOrder handles DELETE /api/v1/work-orders/:id
func DeleteWorkOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
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

// AddWorkOrderPart handles POST /api/v1/work-orders/:id/parts
func AddWorkOrderPart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
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

// AddWorkOrderService handles POST /api/v1/work-orders/:id/services
func AddWorkOrderService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
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

// RemoveWorkOrderPart handles DELETE /api/v1/work-orders/:id/parts/:partId
func RemoveWorkOrderPart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	partID, ok := parseIDParam(c, "partId")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	if err := svc.RemovePartLine(id, partID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"removed": true},
	})
}

// RemoveWorkOrderService handles DELETE /api/v1/work-orders/:id/services/:serviceId
func RemoveWorkOrderService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "serviceId")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	if err := svc.RemoveServiceLine(id, serviceID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"removed": true},
	})
}

// ListWorkOrderLines handles GET /api/v1/work-orders/:id/lines
func ListWorkOrderLines(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	partLines, serviceLines, err := svc.Lines(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"parts":    partLines,
			"services": serviceLines,
		},
	})
}

// FinalizeWorkOrder handles POST /api/v1/work-orders/:id/finalize
func FinalizeWorkOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	order, summary, err := svc.Finalize(id, req.PaymentMethod, req.DiscountPartsPct, req.DiscountServicesPct)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":   order,
			"summary": summary.Rounded(),
		},
	})
}

// GetWorkOrderReceipt handles GET /api/v1/work-orders/:id/receipt
// It returns the printable summary of a closed work order: header, lines,
// and the discount computation rounded to 2 decimals.
func GetWorkOrderReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewWorkOrderService(config.GetDB())
	order, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if order.IsOpen() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "work order is still open",
			},
		})
		return
	}

	partLines, serviceLines, err := svc.Lines(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	summary, err := svc.ReceiptSummary(order)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"parts":    partLines,
			"services": serviceLines,
			"summary":  summary.Rounded(),
		},
	})
}
