package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const ThumbnailWidth = 640

// Thumbnail decodes an uploaded image and re-encodes it as a JPEG at most
// ThumbnailWidth wide. Smaller images are only re-encoded.
func Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > ThumbnailWidth {
		img = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
