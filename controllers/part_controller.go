package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
)

// PartRequest represents the request body for creating or updating a part.
// Price changes take effect immediately on every open order referencing the
// part, because order totals are always computed against the current price.
type PartRequest struct {
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	BrandID     uint     `json:"brand_id" binding:"required"`
}

// CreatePart handles POST /api/v1/parts
func CreatePart(c *gin.Context) {
	var req PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()
	var brand models.Brand
	if err := db.First(&brand, req.BrandID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Brand not found",
			},
		})
		return
	}

	part := models.Part{
		Description: req.Description,
		Price:       *req.Price,
		BrandID:     req.BrandID,
	}
	if err := db.Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create part",
			},
		})
		return
	}

	if err := db.Preload("Brand").First(&part, part.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load part details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    part,
	})
}

// ListParts handles GET /api/v1/parts
func ListParts(c *gin.Context) {
	var parts []models.Part
	if err := config.GetDB().Preload("Brand").Order("description ASC").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch parts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    parts,
	})
}

// GetPart handles GET /api/v1/parts/:id
func GetPart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var part models.Part
	if err := config.GetDB().Preload("Brand").First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Part not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    part,
	})
}

// UpdatePart handles PUT /api/v1/parts/:id
func UpdatePart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var part models.Part
	if err := db.First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Part not found",
			},
		})
		return
	}

	var req PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "price must not be negative",
			},
		})
		return
	}

	part.Description = req.Description
	part.Price = *req.Price
	part.BrandID = req.BrandID
	if err := db.Save(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update part",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    part,
	})
}

// DeletePart handles DELETE /api/v1/parts/:id
func DeletePart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var part models.Part
	if err := db.First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Part not found",
			},
		})
		return
	}

	// Parts referenced by order lines cannot be removed
	var lineCount int64
	if err := db.Model(&models.WorkOrderPart{}).Where("part_id = ?", id).Count(&lineCount).Error; err == nil && lineCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Part is referenced by work orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete part",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
