package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
	"github.com/rafael-duarte/oficina-api/services"
)

// UploadWorkOrderPhoto handles POST /api/v1/work-orders/:id/photo - attaches
// a PNG photo (e.g. of the vehicle on arrival) to a work order.
func UploadWorkOrderPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.WorkOrder
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Work order not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A 'photo' file field is required",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	photoKey, err := photoService.UploadPhoto(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Replace any previous photo; best-effort delete of the old object.
	oldKey := order.PhotoS3Key
	if err := db.Model(&order).Update("photo_s3_key", photoKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to store photo reference",
			},
		})
		return
	}
	if oldKey != nil && *oldKey != photoKey {
		_ = photoService.DeletePhoto(*oldKey)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"photo_s3_key": photoKey,
		},
	})
}

// GetWorkOrderPhoto handles GET /api/v1/work-orders/:id/photo - returns a
// presigned URL for the order's attached photo.
func GetWorkOrderPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.WorkOrder
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Work order not found",
			},
		})
		return
	}

	if order.PhotoS3Key == nil || *order.PhotoS3Key == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Work order has no photo",
			},
		})
		return
	}

	url, err := services.GetPhotoService().GetPhotoURL(*order.PhotoS3Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to generate photo URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"photo_url": url,
		},
	})
}
