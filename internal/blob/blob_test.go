package blob

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestEncodeWebPShrinksToFit(t *testing.T) {
	out, err := EncodeWebP(pngOf(t, 400, 200), ImageOptions{MaxWidth: 100, MaxHeight: 100, Quality: 70})
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestEncodeWebPKeepsSmallImages(t *testing.T) {
	out, err := EncodeWebP(pngOf(t, 40, 30), AvatarImage)
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestEncodeWebPRejectsGarbage(t *testing.T) {
	_, err := EncodeWebP(strings.NewReader("not an image"), GalleryImage)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := UploadImage(ctx, m, BucketGallery, pngOf(t, 10, 10), GalleryImage)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, ".webp"))

	_, ct, ok := m.Object(BucketGallery, id)
	require.True(t, ok)
	assert.Equal(t, "image/webp", ct)

	u, err := m.URL(ctx, BucketGallery, id)
	require.NoError(t, err)
	assert.Equal(t, "memory://galeria/"+id, u)

	require.NoError(t, m.Delete(ctx, BucketGallery, id))
	_, err = m.URL(ctx, BucketGallery, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
