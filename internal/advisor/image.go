package advisor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// MaxReceiptSize is the largest upload accepted for analysis.
	MaxReceiptSize = 10 * 1024 * 1024
	// ReceiptMaxWidth is the width receipts are downscaled to.
	ReceiptMaxWidth = 1600
	// ReceiptJPEGQuality is used when re-encoding receipts.
	ReceiptJPEGQuality = 85
)

var (
	ErrImageTooLarge = errors.New("image too large")
	ErrInvalidImage  = errors.New("invalid image data")
)

// PrepareReceiptImage decodes an uploaded photo (JPEG, PNG, GIF, BMP or
// TIFF), applies its EXIF orientation, downscales it to ReceiptMaxWidth and
// re-encodes it as JPEG.
func PrepareReceiptImage(data []byte) ([]byte, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Bounds().Dx() > ReceiptMaxWidth {
		img = imaging.Resize(img, ReceiptMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ReceiptJPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode receipt: %w", err)
	}
	return buf.Bytes(), nil
}
