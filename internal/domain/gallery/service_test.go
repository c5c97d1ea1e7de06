package gallery

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

var (
	admin = user.Viewer{UserID: "admin", Admin: true}
	coach = user.Viewer{UserID: "prof-1", Role: user.RoleProfissional}
	other = user.Viewer{UserID: "prof-2", Role: user.RoleProfissional}
)

func jpegImage(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return bytes.NewReader(buf.Bytes())
}

func TestUploadListDelete(t *testing.T) {
	blobs := blob.NewMemory()
	svc := NewService(NewRepo(docstore.NewMemory()), blobs)
	ctx := context.Background()

	_, err := svc.Upload(ctx, user.Viewer{UserID: "a1", Role: user.RoleAtleta}, "x", jpegImage(t, 4, 4))
	assert.True(t, IsErrUnauthorized(err))

	_, err = svc.Upload(ctx, coach, "x", strings.NewReader("nope"))
	assert.True(t, IsErrBadRequest(err))

	v, err := svc.Upload(ctx, coach, "  Treino de sábado ", jpegImage(t, 2000, 1000))
	require.NoError(t, err)
	assert.Equal(t, "Treino de sábado", v.Title)
	assert.Equal(t, "memory://galeria/"+v.ImageID, v.URL)

	data, contentType, ok := blobs.Object(blob.BucketGallery, v.ImageID)
	require.True(t, ok)
	assert.Equal(t, "image/webp", contentType)
	assert.NotEmpty(t, data)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.True(t, IsErrUnauthorized(svc.Delete(ctx, other, v.ID)))
	require.NoError(t, svc.Delete(ctx, admin, v.ID))
	assert.Equal(t, 0, blobs.Len())
	assert.True(t, IsErrNotFound(svc.Delete(ctx, coach, v.ID)))
}
