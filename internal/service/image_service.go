package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lostfound/internal/config"
	"lostfound/internal/domain"
	"lostfound/internal/port"
	"lostfound/internal/validator"
)

// Image keys embed a fresh uuid and are never overwritten.
const imageCacheControl = "public, max-age=31536000, immutable"

// ImageFile is an image attached to a report submission.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageService stores report images and returns their durable URL.
type ImageService interface {
	Upload(ctx context.Context, file ImageFile) (string, error)
}

type imageService struct {
	storage port.ObjectStorage
	cfg     *config.S3Config
	logger  *zap.Logger
}

// NewImageService creates a new ImageService implementation.
func NewImageService(storage port.ObjectStorage, cfg *config.S3Config, logger *zap.Logger) ImageService {
	return &imageService{
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}

// Upload rejects non-image content types and oversize files before any
// network call.
func (s *imageService) Upload(ctx context.Context, file ImageFile) (string, error) {
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return "", domain.NewValidationError(validator.FieldImage, validator.MsgImageType)
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && file.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	key := fmt.Sprintf("reports/%s/%s", uuid.New(), objectName(file.Filename))

	s.logger.Debug("uploading report image",
		zap.String("key", key),
		zap.String("content_type", file.ContentType),
		zap.Int64("size", file.Size))

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:       s.cfg.Bucket,
		Key:          key,
		Body:         file.Body,
		ContentType:  file.ContentType,
		Size:         file.Size,
		CacheControl: imageCacheControl,
	})
	if err != nil {
		s.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", domain.Upload(err)
	}

	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
	}
	return out.Location, nil
}

// objectName strips any directory part a client sent with the filename.
func objectName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
