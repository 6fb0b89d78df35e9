package imagestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestLocal_PutDelete(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	root := t.TempDir()
	store, err := NewLocal(root, logger)
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "events/original/original_x.png", []byte("data"), "image/png"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "events", "original", "original_x.png")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	if err := store.Delete(ctx, "events/original/original_x.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting again is a no-op.
	if err := store.Delete(ctx, "events/original/original_x.png"); err != nil {
		t.Fatalf("second Delete should ignore missing file, got %v", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	store, _ := NewLocal(t.TempDir(), logger)

	for _, p := range []string{"../escape.png", "/etc/passwd", "events/../../x"} {
		if err := store.Put(context.Background(), p, []byte("x"), ""); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("expected ErrInvalidPath for %q, got %v", p, err)
		}
	}
}
