package image

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/mocks"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testConfig() config.UploadConfig {
	return config.UploadConfig{
		PublicPath:     "/uploads",
		MaxSize:        10 * 1024 * 1024,
		MaxDimension:   5000,
		AllowedFormats: []string{"jpeg", "png", "webp"},
		Breakpoints:    config.BreakpointConfig{Small: 100, Medium: 300, Large: 600},
		Quality:        80,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	if !ok || appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProcessImage_SmallImageAliasesLargeThumbnails(t *testing.T) {
	// Arrange
	store := mocks.NewMockImageStore()
	svc := NewService(store, testConfig(), newTestLogger())

	// Act
	info, err := svc.ProcessImage(context.Background(), ports.ImageUpload{Filename: "a.png", Data: pngBytes(t, 250, 188)})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.Original.Width != 250 || info.Original.Height != 188 {
		t.Errorf("unexpected original size %dx%d", info.Original.Width, info.Original.Height)
	}
	if !strings.HasPrefix(info.Original.Path, "/uploads/events/original/original_") {
		t.Errorf("unexpected original path %s", info.Original.Path)
	}
	if info.Thumbnails.Small.Width != 100 || info.Thumbnails.Small.Height != 75 {
		t.Errorf("expected small 100x75, got %dx%d", info.Thumbnails.Small.Width, info.Thumbnails.Small.Height)
	}
	if info.Thumbnails.Medium.Path != info.Original.Path || info.Thumbnails.Large.Path != info.Original.Path {
		t.Error("medium and large should reuse the original")
	}
	if store.Len() != 2 {
		t.Errorf("expected original + small stored, got %d objects", store.Len())
	}
}

func TestProcessImage_AllThumbnails(t *testing.T) {
	// Arrange
	store := mocks.NewMockImageStore()
	svc := NewService(store, testConfig(), newTestLogger())

	// Act
	info, err := svc.ProcessImage(context.Background(), ports.ImageUpload{Filename: "b.png", Data: pngBytes(t, 1000, 750)})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := map[string][2]int{"small": {100, 75}, "medium": {300, 225}, "large": {600, 450}}
	got := map[string]domain.ImageDescriptor{
		"small":  info.Thumbnails.Small,
		"medium": info.Thumbnails.Medium,
		"large":  info.Thumbnails.Large,
	}
	for name, dims := range want {
		d := got[name]
		if d.Width != dims[0] || d.Height != dims[1] {
			t.Errorf("%s: expected %dx%d, got %dx%d", name, dims[0], dims[1], d.Width, d.Height)
		}
		if !strings.Contains(d.Path, "/events/thumbnails/"+name+"_") || !strings.HasSuffix(d.Path, ".jpg") {
			t.Errorf("%s: unexpected path %s", name, d.Path)
		}
	}
	if store.Len() != 4 {
		t.Errorf("expected 4 stored objects, got %d", store.Len())
	}
}

func TestProcessImage_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSize = 64 * 1024
	cfg.MaxDimension = 200
	svc := NewService(mocks.NewMockImageStore(), cfg, newTestLogger())

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("plain text, definitely not pixels")},
		{"too large", bytes.Repeat([]byte{0}, 70*1024)},
		{"too wide", pngBytes(t, 201, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessImage(context.Background(), ports.ImageUpload{Filename: "x", Data: tt.data})
			assertBadRequest(t, err)
		})
	}
}

func TestProcessImage_StoreFailureCleansUp(t *testing.T) {
	// Arrange
	store := mocks.NewMockImageStore()
	puts := 0
	store.PutFunc = func(ctx context.Context, path string, data []byte, contentType string) error {
		puts++
		if puts == 3 {
			return errors.New("disk full")
		}
		return nil
	}
	svc := NewService(store, testConfig(), newTestLogger())

	// Act
	_, err := svc.ProcessImage(context.Background(), ports.ImageUpload{Filename: "c.png", Data: pngBytes(t, 1000, 750)})

	// Assert
	if err == nil {
		t.Fatal("expected error")
	}
	if store.Len() != 0 {
		t.Errorf("expected partial files removed, %d remain", store.Len())
	}
}

func TestDeleteImage_RemovesDistinctPaths(t *testing.T) {
	// Arrange
	store := mocks.NewMockImageStore()
	var deleted []string
	store.DeleteFunc = func(ctx context.Context, path string) error {
		deleted = append(deleted, path)
		return nil
	}
	svc := NewService(store, testConfig(), newTestLogger())
	info, err := svc.ProcessImage(context.Background(), ports.ImageUpload{Filename: "d.png", Data: pngBytes(t, 250, 188)})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	// Act
	err = svc.DeleteImage(context.Background(), *info)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %v", deleted)
	}
	for _, p := range deleted {
		if strings.HasPrefix(p, "/") {
			t.Errorf("expected store-relative key, got %s", p)
		}
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestApplyOrientation_Rotate(t *testing.T) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 40, 10))

	rotated := applyOrientation(img, 6)

	if b := rotated.Bounds(); b.Dx() != 10 || b.Dy() != 40 {
		t.Errorf("expected 10x40 after rotation, got %dx%d", b.Dx(), b.Dy())
	}
	if applyOrientation(img, 1) != stdimage.Image(img) {
		t.Error("orientation 1 should return the input")
	}
}
