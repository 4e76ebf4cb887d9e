package handlers

import (
	"net/http"

	"blaccbook/services/storage"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
)

// Folders accepted by the generic upload endpoint.
var uploadFolders = map[string]bool{
	"profile_images": true,
	"service_images": true,
}

// StorageHandler serves generic file uploads (profile and service images).
type StorageHandler struct {
	Storage storage.StorageService
}

func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{Storage: svc}
}

// Upload stores a file in the requested folder and returns its URL.
func (h *StorageHandler) Upload(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	folder := c.PostForm("folder")
	if !uploadFolders[folder] {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "unknown upload folder")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "a file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "failed to read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadFile(c.Request.Context(), file, folder)
	if err != nil {
		utils.HandleServiceError(c, err, "upload file")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
