package image

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

const (
	originalDir  = "events/original"
	thumbnailDir = "events/thumbnails"

	originalQuality = 95
)

type Service struct {
	store       ports.ImageStore
	publicPath  string
	maxSize     int64
	maxDim      int
	allowed     map[string]bool
	breakpoints config.BreakpointConfig
	quality     int
	log         *zap.Logger
}

func NewService(store ports.ImageStore, cfg config.UploadConfig, log *zap.Logger) *Service {
	allowed := make(map[string]bool, len(cfg.AllowedFormats))
	for _, f := range cfg.AllowedFormats {
		allowed[strings.ToLower(f)] = true
	}
	if len(allowed) == 0 {
		allowed = map[string]bool{"jpeg": true, "png": true, "webp": true}
	}
	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Service{
		store:       store,
		publicPath:  strings.TrimRight(cfg.PublicPath, "/"),
		maxSize:     cfg.MaxSize,
		maxDim:      cfg.MaxDimension,
		allowed:     allowed,
		breakpoints: cfg.Breakpoints,
		quality:     quality,
		log:         log,
	}
}

// ProcessImage validates upload, stores the original and one thumbnail per
// breakpoint. Nothing stays behind on failure.
func (s *Service) ProcessImage(ctx context.Context, upload ports.ImageUpload) (info *domain.ImageInfo, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "image.Process")
	defer span.End()
	span.SetAttributes(
		attribute.String("image.filename", upload.Filename),
		attribute.Int("image.size", len(upload.Data)),
	)

	start := time.Now()
	var created []string
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.cleanup(created)
		}
		telemetry.ImagesProcessedTotal.WithLabelValues(outcome).Inc()
		telemetry.ImageProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	format, err := s.validate(upload)
	if err != nil {
		return nil, err
	}

	img, err := decode(upload.Data)
	if err != nil {
		return nil, domain.BadRequest("Invalid image file")
	}

	id := uuid.New().String()
	ext := storedExtension(format)
	encoded, err := encode(img, format, originalQuality)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("encode original: %w", err))
	}

	bounds := img.Bounds()
	originalName := fmt.Sprintf("original_%s.%s", id, ext)
	originalKey := path.Join(originalDir, originalName)
	if err := s.store.Put(ctx, originalKey, encoded, contentType(ext)); err != nil {
		return nil, domain.Internal(fmt.Errorf("store original: %w", err))
	}
	created = append(created, originalKey)

	original := domain.ImageDescriptor{
		Filename: originalName,
		Path:     s.publicURL(originalKey),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}
	result := &domain.ImageInfo{Original: original}

	sizes := []struct {
		name  string
		width int
		dst   *domain.ImageDescriptor
	}{
		{"small", s.breakpoints.Small, &result.Thumbnails.Small},
		{"medium", s.breakpoints.Medium, &result.Thumbnails.Medium},
		{"large", s.breakpoints.Large, &result.Thumbnails.Large},
	}
	for _, size := range sizes {
		if size.width <= 0 || size.width >= original.Width {
			*size.dst = original
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		thumb := resizeToWidth(img, size.width)
		data, err := encode(thumb, "jpeg", s.quality)
		if err != nil {
			return nil, domain.Internal(fmt.Errorf("encode %s thumbnail: %w", size.name, err))
		}
		name := fmt.Sprintf("%s_%s.jpg", size.name, id)
		key := path.Join(thumbnailDir, name)
		if err := s.store.Put(ctx, key, data, "image/jpeg"); err != nil {
			return nil, domain.Internal(fmt.Errorf("store %s thumbnail: %w", size.name, err))
		}
		created = append(created, key)

		tb := thumb.Bounds()
		*size.dst = domain.ImageDescriptor{
			Filename: name,
			Path:     s.publicURL(key),
			Width:    tb.Dx(),
			Height:   tb.Dy(),
		}
	}

	s.log.Debug("image processed",
		zap.String("original", original.Path),
		zap.Int("width", original.Width),
		zap.Int("height", original.Height),
	)
	return result, nil
}

func (s *Service) validate(upload ports.ImageUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", domain.BadRequest("No image file provided")
	}
	if s.maxSize > 0 && int64(len(upload.Data)) > s.maxSize {
		return "", domain.BadRequest(fmt.Sprintf("File size cannot exceed %d bytes", s.maxSize))
	}

	format := detectFormat(upload.Data)
	if format == "" || !s.allowed[format] {
		return "", domain.BadRequest("Invalid file type. Only JPEG, PNG and WebP are allowed")
	}

	width, height, err := dimensions(upload.Data)
	if err != nil {
		return "", domain.BadRequest("Invalid image file")
	}
	if s.maxDim > 0 && (width > s.maxDim || height > s.maxDim) {
		return "", domain.BadRequest(fmt.Sprintf("Image dimensions cannot exceed %dx%d", s.maxDim, s.maxDim))
	}
	return format, nil
}

// DeleteImage removes every distinct stored rendition. Missing files are ignored.
func (s *Service) DeleteImage(ctx context.Context, info domain.ImageInfo) error {
	var errs []error
	for _, p := range info.Paths() {
		if err := s.store.Delete(ctx, s.storeKey(p)); err != nil {
			s.log.Warn("failed to delete image", zap.String("path", p), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) cleanup(keys []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("failed to clean up partial image", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Service) publicURL(key string) string {
	return s.publicPath + "/" + key
}

// storeKey maps a public path back to the store-relative key.
func (s *Service) storeKey(p string) string {
	return strings.TrimPrefix(strings.TrimPrefix(p, s.publicPath), "/")
}

var _ ports.ImageService = (*Service)(nil)
