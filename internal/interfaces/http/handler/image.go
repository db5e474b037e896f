package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	"github.com/storeadmin/backend/internal/infrastructure/storage"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
)

// ImageFormField is the multipart field carrying the uploaded file
const ImageFormField = "file"

// ObjectReader serves stored objects by key
type ObjectReader interface {
	Get(key string) (storage.Object, bool)
}

// ImageHandler handles product image uploads
type ImageHandler struct {
	BaseHandler
	imageService *catalogapp.ImageService
	objects      ObjectReader
}

// NewImageHandler creates a new ImageHandler. objects may be nil when images
// are served by the blob store itself.
func NewImageHandler(imageService *catalogapp.ImageService, objects ObjectReader) *ImageHandler {
	return &ImageHandler{imageService: imageService, objects: objects}
}

// Upload godoc
// @Summary      Upload a product image
// @Description  Store an image and return the URL to put in a product's images list
// @Tags         images
// @Accept       mpfd
// @Produce      json
// @Param        storeId path int true "Store ID"
// @Param        file formData file true "Image file (jpeg, png, gif, webp)"
// @Success      201 {object} dto.Response{data=catalogapp.ImageUploadView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{storeId}/images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	storeID, ok := parseIDParam(c, middleware.StoreIDParam)
	if !ok {
		h.InvalidInput(c, "Store id is required")
		return
	}

	fileHeader, err := c.FormFile(ImageFormField)
	if err != nil {
		if isTooLarge(err) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Image is too large")
			return
		}
		h.BadRequest(c, "An image file is required in the 'file' field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	view, err := h.imageService.Upload(c.Request.Context(), catalogapp.ImageUploadInput{
		StoreID:     storeID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, view)
}

// Serve writes an object kept by the in-process store
func (h *ImageHandler) Serve(c *gin.Context) {
	if h.objects == nil {
		h.NotFound(c, "Image not found")
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, ok := h.objects.Get(key)
	if !ok {
		h.NotFound(c, "Image not found")
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
