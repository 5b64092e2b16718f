package controller

import (
	"net/http"

	"github.com/clickmobile/clickmobile-backend/internal/errors"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/clickmobile/clickmobile-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: s3,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// PresignImageUpload hands out a presigned S3 PUT URL for a product image.
// The client uploads directly to S3 and stores the returned file URL on the
// product. Admin only.
// POST /api/v1/uploads/presign
func (ctrl *UploadController) PresignImageUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid upload request")
		return
	}

	upload, err := ctrl.storage.PresignImageUpload(req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Warn("Presign rejected", map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"error":        err.Error(),
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, err.Error())
		return
	}

	log.Info("Presigned upload issued", map[string]interface{}{
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}
