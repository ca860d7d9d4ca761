// Package imaging compresses uploaded images so embedded document payloads
// stay inside the publishing size budget.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	defaultMaxBytes  = 1 << 20 // 1 MiB after encoding
	defaultMaxWidth  = 1920
	defaultMaxHeight = 1080
	startQuality     = 90
	minQuality       = 10
)

// Compressor shrinks images to fit a byte budget: resize to the bounding
// box, then walk JPEG quality down, then scale dimensions as a last resort.
type Compressor struct {
	maxBytes  int
	maxWidth  int
	maxHeight int
}

func NewCompressor() *Compressor {
	return &Compressor{
		maxBytes:  defaultMaxBytes,
		maxWidth:  defaultMaxWidth,
		maxHeight: defaultMaxHeight,
	}
}

// CompressToDataURI reads an image, auto-rotates it per EXIF orientation,
// fits it into 1920x1080 and re-encodes it as JPEG under the byte budget,
// returned as a base64 data URI ready to embed in a document.
func (c *Compressor) CompressToDataURI(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image data: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, readOrientation(bytes.NewReader(data)))

	bounds := img.Bounds()
	if bounds.Dx() > c.maxWidth || bounds.Dy() > c.maxHeight {
		img = imaging.Fit(img, c.maxWidth, c.maxHeight, imaging.Lanczos)
	}

	encoded, err := c.encodeUnderBudget(img)
	if err != nil {
		return "", err
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}

func (c *Compressor) encodeUnderBudget(img image.Image) ([]byte, error) {
	var encoded []byte
	var err error

	for quality := startQuality; quality >= minQuality; quality -= 10 {
		encoded, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(encoded) <= c.maxBytes {
			return encoded, nil
		}
	}

	// Lowest quality still too large: shrink dimensions proportionally to
	// the remaining overshoot and encode once more.
	scale := math.Sqrt(float64(c.maxBytes) / float64(len(encoded)))
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * scale)
	if width < 1 {
		width = 1
	}
	scaled := imaging.Resize(img, width, 0, imaging.Lanczos)

	encoded, err = encodeJPEG(scaled, 80)
	if err != nil {
		return nil, err
	}
	if len(encoded) > c.maxBytes {
		return nil, fmt.Errorf("image cannot be compressed under %d bytes", c.maxBytes)
	}
	return encoded, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func readOrientation(r io.Reader) int {
	meta, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
