package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := NewFileName("My Clip.MP4", now)
	assert.True(t, strings.HasPrefix(name, "1700000000123-"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.NotEqual(t, name, NewFileName("My Clip.MP4", now))
	assert.False(t, strings.Contains(NewFileName("noext", now), "."))
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Save(ctx, "a.mp4", "video/mp4", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.mp4", url)

	got, err := os.ReadFile(filepath.Join(dir, "a.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	_, err = s.Save(ctx, "../escape.mp4", "video/mp4", nil)
	assert.ErrorIs(t, err, ErrInvalidFile)

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "a.mp4"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(ctx, url))
	assert.NoError(t, s.Delete(ctx, "/uploads/../../etc/passwd"))
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1280, 720))
	for x := 0; x < 1280; x++ {
		img.Set(x, x%720, color.RGBA{R: 255, A: 255})
	}
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, img))

	out, err := Thumbnail(src.Bytes())
	require.NoError(t, err)
	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, ThumbnailWidth, decoded.Bounds().Dx())
	assert.Equal(t, 360, decoded.Bounds().Dy())

	_, err = Thumbnail([]byte("not an image"))
	assert.Error(t, err)
}

func TestS3KeyFromURL(t *testing.T) {
	s := &S3Store{bucket: "clips", region: "us-east-1", prefix: "media"}
	assert.Equal(t, "media/a.mp4", s.keyFromURL(s.publicURL("media/a.mp4")))
	assert.Equal(t, "", s.keyFromURL("https://clips.s3.us-east-1.amazonaws.com/other/a.mp4"))

	minio := &S3Store{bucket: "clips", endpoint: "http://localhost:9000"}
	assert.Equal(t, "a.mp4", minio.keyFromURL(minio.publicURL("a.mp4")))
}
