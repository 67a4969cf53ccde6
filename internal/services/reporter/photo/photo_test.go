package photo

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/civicreporter/internal/platform/errors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAllowedExtension(t *testing.T) {
	tests := map[string]bool{
		"a.png":         true,
		"a.JPG":         true,
		"a.jpeg":        true,
		" b.Jpeg ":      true,
		"a.gif":         false,
		"a.webp":        false,
		"noext":         false,
		"":              false,
		"photo.png.exe": false,
	}
	for name, want := range tests {
		if got := AllowedExtension(name); got != want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNormalizeFlattensTransparentPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	// remaining pixels are fully transparent

	out, err := Normalize("upload.png", bytes.NewReader(encodePNG(t, src)), 0)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not jpeg: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Fatalf("bounds = %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(3, 3).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("transparent pixel should be white, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeReencodesJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var in bytes.Buffer
	if err := jpeg.Encode(&in, src, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Normalize("camera.jpeg", &in, 1<<20)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("decode output: %v", err)
	}
}

func TestNormalizeRejects(t *testing.T) {
	valid := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 8, 8)))
	tests := []struct {
		name     string
		filename string
		data     []byte
		maxBytes int64
	}{
		{name: "extension", filename: "a.gif", data: valid},
		{name: "too large", filename: "a.png", data: valid, maxBytes: 10},
		{name: "empty", filename: "a.png", data: nil},
		{name: "garbage", filename: "a.jpg", data: []byte(strings.Repeat("x", 64))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.filename, bytes.NewReader(tc.data), tc.maxBytes)
			if apperrors.CodeOf(err) != apperrors.CodePhotoInvalid {
				t.Fatalf("code = %q (%v)", apperrors.CodeOf(err), err)
			}
		})
	}
}

// pngWithDimensions rewrites the header of a tiny PNG to claim width x height.
func pngWithDimensions(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 1)))
	// IHDR: length(4) type(4) at offset 8, data(13) at 16, crc(4) at 29.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestNormalizeRejectsOversizedDimensions(t *testing.T) {
	data := pngWithDimensions(t, 8000, 8000)
	if len(data) > 1024 {
		t.Fatalf("fixture is %d bytes, want a small upload", len(data))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 8000 || cfg.Height != 8000 {
		t.Fatalf("fixture config = %+v, %v", cfg, err)
	}

	_, err = Normalize("huge.png", bytes.NewReader(data), DefaultMaxBytes)
	if apperrors.CodeOf(err) != apperrors.CodePhotoInvalid {
		t.Fatalf("code = %q (%v), want %q", apperrors.CodeOf(err), err, apperrors.CodePhotoInvalid)
	}
	if !strings.Contains(err.Error(), "dimensions") {
		t.Fatalf("error = %v, want dimensions failure", err)
	}
}

func TestNormalizeAcceptsImagesWithinPixelBudget(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	out, err := Normalize("ok.png", bytes.NewReader(encodePNG(t, img)), DefaultMaxBytes)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if got := decoded.Bounds().Size(); got != (image.Point{X: 200, Y: 100}) {
		t.Fatalf("size = %v, want 200x100", got)
	}
}

func TestAccept(t *testing.T) {
	for _, ext := range strings.Split(Accept(), ",") {
		if !AllowedExtension("x" + ext) {
			t.Fatalf("accept lists unsupported %q", ext)
		}
	}
}
