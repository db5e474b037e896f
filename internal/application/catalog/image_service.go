package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// AllowedImageTypes is the whitelist of content types accepted for product images.
// SVG is excluded since it can carry inline scripts.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DefaultMaxImageSize caps a single upload
const DefaultMaxImageSize int64 = 5 << 20

// ImageStorage stores image bytes and returns the URL they are served from.
// Implemented by the infrastructure layer (S3, MinIO, in-memory).
type ImageStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ImageUploadInput carries one uploaded file
type ImageUploadInput struct {
	StoreID     int64
	FileName    string
	ContentType string
	Data        []byte
}

// ImageUploadView is the result of an upload. URL goes into a product's image list.
type ImageUploadView struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// ImageService validates and stores product images
type ImageService struct {
	storage ImageStorage
	maxSize int64
}

// NewImageService creates a new ImageService. A non-positive maxSize uses DefaultMaxImageSize.
func NewImageService(storage ImageStorage, maxSize int64) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &ImageService{storage: storage, maxSize: maxSize}
}

// Upload stores the image under a fresh key scoped to the store
func (s *ImageService) Upload(ctx context.Context, in ImageUploadInput) (*ImageUploadView, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.upload_image",
		attribute.Int64("store.id", in.StoreID),
		attribute.Int("image.size", len(in.Data)))
	defer span.End()

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	defaultExt, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: jpeg, png, gif, webp", in.ContentType))
	}
	if len(in.Data) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Image is empty")
	}
	if int64(len(in.Data)) > s.maxSize {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Image exceeds the maximum size of %d bytes", s.maxSize))
	}

	key := imageKey(in.StoreID, in.FileName, defaultExt)
	url, err := s.storage.Put(ctx, key, contentType, in.Data)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	return &ImageUploadView{
		URL:         url,
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(in.Data)),
	}, nil
}

// imageKey builds stores/{storeID}/{uuid}{ext}. The client's extension is kept
// only when it is a plain alphanumeric suffix.
func imageKey(storeID int64, fileName, defaultExt string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !isSafeExt(ext) {
		ext = defaultExt
	}
	return fmt.Sprintf("stores/%d/%s%s", storeID, uuid.New().String(), ext)
}

func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
