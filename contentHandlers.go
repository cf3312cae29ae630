package main

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"github.com/contentlens/insight_backend/workflow"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxContentUploadBytes int64 = 50 * 1024 * 1024

var thumbnailMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

func uploadHandler(pipeline *workflow.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := config.GetLogger()
		userId, _ := userIdFromRequest(c)

		companyName := strings.TrimSpace(c.PostForm("companyName"))
		if companyName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
			return
		}

		input := workflow.UploadInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			CompanyName: companyName,
			SourceURL:   c.PostForm("url"),
			Text:        c.PostForm("text"),
		}
		if raw := c.PostForm("contentType"); raw != "" {
			contentType, err := models.ParseContentType(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
				return
			}
			input.ContentType = contentType
		}
		if raw := c.PostForm("source"); raw != "" {
			source, err := models.ParseContentSource(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content source"})
				return
			}
			input.Source = source
		}

		file, err := c.FormFile("file")
		if err != nil {
			file = nil
		}
		if input.Source == models.ContentSourceFileUpload && file != nil {
			if file.Size > maxContentUploadBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 50MB limit"})
				return
			}
			if utils.GetStorageProvider() != utils.StorageProviderGCS {
				c.JSON(http.StatusBadRequest, gin.H{"error": "storage provider not supported"})
				return
			}

			src, err := file.Open()
			if err != nil {
				respondStoreError(c, "uploadHandler", "Failed to upload file", file.Filename, err)
				return
			}
			defer src.Close()

			ext := strings.ToLower(filepath.Ext(file.Filename))
			objectKey := fmt.Sprintf("content/%d/%s%s", userId, utils.GenerateUniqueFilename(), ext)

			mimeType, err := utils.UploadContentFileToGCS(ctx, objectKey, src)
			if err != nil {
				if strings.Contains(err.Error(), "unsupported file type") {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				respondStoreError(c, "uploadHandler", "Failed to upload file", objectKey, err)
				return
			}

			fileName := file.Filename
			fileSize := file.Size
			input.StoragePath = &objectKey
			input.FileName = &fileName
			input.FileSize = &fileSize
			input.MimeType = &mimeType

			if thumbnailMimeTypes[mimeType] {
				thumbnailKey, err := createContentThumbnail(c, objectKey)
				if err != nil {
					// The original stays usable without its thumbnail.
					config.LogError(logger, "server.go", "uploadHandler", "thumbnail generation failed", objectKey, err)
				} else {
					thumbnailURL := utils.BuildObjectAccessURL(thumbnailKey)
					input.ThumbnailURL = &thumbnailURL
				}
			}

			logger.WithFields(logrus.Fields{
				"user_id":    userId,
				"mime_type":  mimeType,
				"size":       fileSize,
				"object_key": objectKey,
			}).Info("[upload.store]")
		}

		item, err := pipeline.Ingest(ctx, userId, &input)
		if err != nil {
			if strings.Contains(err.Error(), "resolve company") {
				respondStoreError(c, "uploadHandler", "Failed to create company", companyName, err)
				return
			}
			respondStoreError(c, "uploadHandler", "Failed to create content item", input.Title, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"contentItem": item,
			"message":     "Content uploaded successfully and processing started",
		})
	}
}

// createContentThumbnail renders a 200px-wide JPEG next to the original under
// a thumbnails/ prefix.
func createContentThumbnail(c *gin.Context, objectKey string) (string, error) {
	ctx := c.Request.Context()
	data, err := utils.ReadObjectFromGCS(ctx, objectKey)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	dir, filename := path.Split(objectKey)
	thumbnailKey := path.Join(dir, "thumbnails", strings.TrimSuffix(filename, path.Ext(filename))+".jpg")
	if err := utils.UploadBytesToGCS(ctx, thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbnailKey, nil
}

type processTextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func processTextHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		var req processTextRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title and text are required"})
			return
		}

		item, err := workflow.CreateDirectTextContent(c.Request.Context(), userId, req.Title, req.Text)
		if err != nil {
			respondStoreError(c, "processTextHandler", "Failed to create content item", req.Title, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"contentId": item.ID,
			"message":   "Text content processed successfully",
		})
	}
}

func listContentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		items, err := models.GetContentItems(c.Request.Context(), userId)
		if err != nil {
			respondStoreError(c, "listContentHandler", "Failed to fetch content", nil, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// serveContentFileHandler streams a stored object back to its owner. The
// object key prefix carries the owning user id, which must match the caller.
func serveContentFileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, _ := userIdFromRequest(c)

		objectKey := strings.TrimPrefix(c.Param("objectKey"), "/")
		if objectKey == "" || strings.Contains(objectKey, "..") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object key"})
			return
		}
		if !strings.HasPrefix(objectKey, fmt.Sprintf("content/%d/", userId)) {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}

		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "storage provider not supported"})
			return
		}

		data, err := utils.ReadObjectFromGCS(ctx, objectKey)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}

		contentType := http.DetectContentType(data)
		c.Data(http.StatusOK, contentType, data)
	}
}
