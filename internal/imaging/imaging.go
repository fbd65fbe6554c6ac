// Package imaging decodes, resizes and re-encodes the photo formats claims
// are fulfilled with.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImage reports whether fileName has an image extension.
func IsImage(fileName string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Decode decodes raw bytes and returns the image with its format name.
func Decode(raw []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ResizeToWidth scales src down to width keeping the aspect ratio. Images
// already at or below width are returned unchanged.
func ResizeToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	if width <= 0 || b.Dx() <= width {
		return src
	}
	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Encoded is an encoded image with the metadata needed to store it.
type Encoded struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Encode writes img as JPEG when format is jpeg and as PNG otherwise.
func Encode(img image.Image, format string) (Encoded, error) {
	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return Encoded{}, fmt.Errorf("encode jpeg: %w", err)
		}
		return Encoded{Data: buf.Bytes(), ContentType: "image/jpeg", Extension: ".jpg"}, nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return Encoded{}, fmt.Errorf("encode png: %w", err)
	}
	return Encoded{Data: buf.Bytes(), ContentType: "image/png", Extension: ".png"}, nil
}
