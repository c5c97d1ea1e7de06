package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid image")

type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   float32
}

var (
	GalleryImage = ImageOptions{MaxWidth: 1600, MaxHeight: 1600, Quality: 80}
	ReportImage  = ImageOptions{MaxWidth: 1280, MaxHeight: 1280, Quality: 75}
	AvatarImage  = ImageOptions{MaxWidth: 512, MaxHeight: 512, Quality: 80}
)

// EncodeWebP decodes any supported image (jpeg, png, gif, bmp, tiff, webp),
// applies EXIF orientation, shrinks it to fit the bounds and re-encodes it
// as lossy WebP.
func EncodeWebP(r io.Reader, opt ImageOptions) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() > opt.MaxWidth || b.Dy() > opt.MaxHeight {
		img = imaging.Fit(img, opt.MaxWidth, opt.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: opt.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadImage runs the image through EncodeWebP and stores the result.
func UploadImage(ctx context.Context, s Store, bucket string, r io.Reader, opt ImageOptions) (string, error) {
	data, err := EncodeWebP(r, opt)
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, bucket, "image/webp", bytes.NewReader(data))
}
