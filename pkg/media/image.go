// Package media turns user-supplied profile images into a normalized JPEG.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// ProfileSize is the edge of the square profile image in pixels.
	ProfileSize    = 300
	MaxSourceBytes = 10 << 20
	jpegQuality    = 85
)

var (
	ErrInvalidSource    = errors.New("image source must be a base64 data URI")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Decode extracts the bytes of a "data:image/...;base64," URI or of a bare
// base64 string.
func Decode(src string) ([]byte, error) {
	payload := strings.TrimSpace(src)
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidSource
		}
		payload = data
	}
	if payload == "" {
		return nil, ErrInvalidSource
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSourceBytes+3 {
		return nil, ErrImageTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
	}
	if len(raw) > MaxSourceBytes {
		return nil, ErrImageTooLarge
	}
	return raw, nil
}

// Normalize detects the image type by content, center-crops it to a square
// and scales it to ProfileSize, returning JPEG bytes.
func Normalize(raw []byte) ([]byte, error) {
	mt := mimetype.Detect(raw)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mt.String(), err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, ProfileSize, ProfileSize))
	// JPEG has no alpha; flatten transparency onto white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, squareCrop(src.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func squareCrop(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
