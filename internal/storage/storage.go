package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidFile = errors.New("invalid file")

// DefaultThumbnail is served for videos uploaded without a thumbnail.
const DefaultThumbnail = "/uploads/default-thumbnail.jpg"

// FileStore persists uploaded media and returns the URL clients fetch it from.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewFileName keeps the original extension and makes the rest unique.
func NewFileName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), ext)
}
