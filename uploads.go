package main

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"github.com/gin-gonic/gin"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// uploadPhotoHandler accepts a multipart intake photo, stores the original
// plus a thumbnail and returns the storage path with public URLs. The caller
// attaches the path to an item via POST /items/:id/images.
func uploadPhotoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !photoExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		result, err := models.UploadItemPhoto(ctx, fileHeader.Filename, file)
		if err != nil {
			config.LogError(logger, "uploads.go", "uploadPhotoHandler", "store photo", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}
