// Package blob stores uploaded files (gallery photos, avatars, report and
// event images). Files are addressed by bucket, a logical folder, and an
// opaque file id.
package blob

import (
	"context"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
)

const (
	BucketGallery = "galeria"
	BucketAvatars = "avatars"
	BucketReports = "relatorios"
	BucketEvents  = "eventos"
)

var ErrNotFound = errors.New("file not found")

type Store interface {
	Upload(ctx context.Context, bucket, contentType string, r io.Reader) (string, error)
	URL(ctx context.Context, bucket, fileID string) (string, error)
	Delete(ctx context.Context, bucket, fileID string) error
}

func objectKey(bucket, fileID string) string {
	return strings.Trim(bucket, "/") + "/" + fileID
}

func newFileID(contentType string) string {
	ext := ""
	switch contentType {
	case "image/webp":
		ext = ".webp"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}
