package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
)

// BrandRequest represents the request body for creating or updating a brand
type BrandRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBrand handles POST /api/v1/brands
func CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	brand := models.Brand{Name: req.Name}
	if err := config.GetDB().Create(&brand).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Brand already exists or could not be created",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    brand,
	})
}

// ListBrands handles GET /api/v1/brands
func ListBrands(c *gin.Context) {
	var brands []models.Brand
	if err := config.GetDB().Order("name ASC").Find(&brands).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch brands",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    brands,
	})
}

// UpdateBrand handles PUT /api/v1/brands/:id
func UpdateBrand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var brand models.Brand
	if err := db.First(&brand, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Brand not found",
			},
		})
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	brand.Name = req.Name
	if err := db.Save(&brand).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update brand",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    brand,
	})
}

// DeleteBrand handles DELETE /api/v1/brands/:id
func DeleteBrand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var brand models.Brand
	if err := db.First(&brand, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Brand not found",
			},
		})
		return
	}

	// Brands referenced by parts or vehicles cannot be removed
	var refs int64
	db.Model(&models.Part{}).Where("brand_id = ?", id).Count(&refs)
	if refs == 0 {
		db.Model(&models.Vehicle{}).Where("brand_id = ?", id).Count(&refs)
	}
	if refs > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Brand is referenced by parts or vehicles and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&brand).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete brand",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
