package middleware

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

const (
	uploadField  = "images"
	localUploads = "uploads"
)

// UploadGate reads the "images" files of a multipart request into memory,
// enforcing the per-file size and file-count limits. Requests that are not
// multipart pass through with no uploads.
func UploadGate(cfg config.UploadConfig) fiber.Handler {
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 5
	}

	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			if errors.Is(err, fasthttp.ErrNoMultipartForm) {
				return c.Next()
			}
			return domain.BadRequest("Invalid multipart form")
		}

		files := form.File[uploadField]
		if len(files) > maxFiles {
			return domain.BadRequest(fmt.Sprintf("Cannot upload more than %d images", maxFiles))
		}

		uploads := make([]ports.ImageUpload, 0, len(files))
		for _, fh := range files {
			if cfg.MaxSize > 0 && fh.Size > cfg.MaxSize {
				return domain.BadRequest(fmt.Sprintf("File size cannot exceed %d bytes", cfg.MaxSize))
			}
			f, err := fh.Open()
			if err != nil {
				return domain.BadRequest("Could not read uploaded file")
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return domain.BadRequest("Could not read uploaded file")
			}
			uploads = append(uploads, ports.ImageUpload{Filename: fh.Filename, Data: data})
		}

		c.Locals(localUploads, uploads)
		return c.Next()
	}
}

// Uploads returns the files collected by UploadGate.
func Uploads(c *fiber.Ctx) []ports.ImageUpload {
	uploads, _ := c.Locals(localUploads).([]ports.ImageUpload)
	return uploads
}
