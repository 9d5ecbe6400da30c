package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var photoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// PhotoUpload stores an applicant photo and returns its public URL. The
// URL is meant to be sent back in the photo_url field of the registration
// form.
func (a *API) PhotoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "file is required",
			"requestID": requestID,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := photoContentTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "only JPEG and PNG photos are accepted",
			"requestID": requestID,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "failed to read uploaded file",
			"requestID": requestID,
		})
		return
	}
	defer src.Close()

	body, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "failed to read uploaded file",
			"requestID": requestID,
		})
		return
	}

	key := "photos/" + newID() + ext

	url, err := a.S3.Upload(c.Request.Context(), key, body, contentType)
	if err != nil {
		zap.L().Error("Failed to upload photo", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while uploading the photo",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
