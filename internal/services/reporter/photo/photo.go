// Package photo validates and re-encodes uploaded complaint photos.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
)

// DefaultMaxBytes bounds uploads when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// MaxPixels bounds width times height of an accepted upload.
const MaxPixels = 40_000_000

// jpegQuality matches the encoder default used by common imaging tools.
const jpegQuality = 90

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// AllowedExtension reports whether filename has a png, jpg or jpeg extension.
func AllowedExtension(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))]
	return ok
}

// Accept lists the extensions for the file input accept attribute.
func Accept() string {
	return ".png,.jpg,.jpeg"
}

// Normalize reads an uploaded image and returns it encoded as JPEG.
func Normalize(filename string, r io.Reader, maxBytes int64) ([]byte, error) {
	if !AllowedExtension(filename) {
		return nil, invalid("unsupported photo type", fmt.Errorf("extension %q", filepath.Ext(filename)))
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, invalid("read photo", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, invalid("photo too large", fmt.Errorf("limit %d bytes", maxBytes))
	}
	if len(data) == 0 {
		return nil, invalid("photo is empty", nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("decode photo", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, invalid("photo dimensions too large", fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("decode photo", err)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, flatten(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, invalid("encode photo", err)
	}
	return out.Bytes(), nil
}

// flatten draws img over an opaque white background, dropping alpha.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Over)
	return canvas
}

func invalid(message string, cause error) error {
	if cause == nil {
		return apperrors.New(apperrors.CodePhotoInvalid, message)
	}
	return apperrors.Wrap(apperrors.CodePhotoInvalid, message, cause)
}
