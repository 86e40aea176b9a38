package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

// testImage builds an in-memory PNG with noisy content so JPEG encoding
// produces realistically sized output.
func testImage(t *testing.T, width, height int) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeSmallImage(t *testing.T) {
	data := testImage(t, 100, 80)

	result, err := Normalize(bytes.NewReader(data), "photo.png")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 100x80 (no resize below bounds)", result.Width, result.Height)
	}
	if result.Filename != "photo.jpg" {
		t.Errorf("Filename = %q, want photo.jpg", result.Filename)
	}
	if result.OriginalSize != int64(len(data)) {
		t.Errorf("OriginalSize = %d, want %d", result.OriginalSize, len(data))
	}
	if result.FinalSize != int64(len(result.Data)) {
		t.Errorf("FinalSize = %d, want %d", result.FinalSize, len(result.Data))
	}
	if got := DetectMimeType(result.Data); got != "image/jpeg" {
		t.Errorf("output MIME type = %q, want image/jpeg", got)
	}
}

func TestNormalizeResizesLargeImage(t *testing.T) {
	data := testImage(t, 2400, 1200)

	result, err := Normalize(bytes.NewReader(data), "big.png")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if result.Width > MaxWidth || result.Height > MaxHeight {
		t.Errorf("dimensions = %dx%d, want within %dx%d", result.Width, result.Height, MaxWidth, MaxHeight)
	}
	// Aspect ratio 2:1 preserved.
	if result.Width != 2000 || result.Height != 1000 {
		t.Errorf("dimensions = %dx%d, want 2000x1000", result.Width, result.Height)
	}
}

func TestNormalizeQualitySearch(t *testing.T) {
	// Noise compresses poorly, so this forces the quality step-down.
	data := testImage(t, 1800, 1800)

	result, err := Normalize(bytes.NewReader(data), "noisy.png")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if result.Quality >= StartQuality && result.FinalSize > TargetBytes {
		t.Errorf("quality = %d with %d bytes, expected step-down when over %d",
			result.Quality, result.FinalSize, TargetBytes)
	}
	if result.Quality < FloorQuality {
		t.Errorf("quality = %d, must not go below floor %d", result.Quality, FloorQuality)
	}
	if len(result.Data) == 0 {
		t.Error("lowest-quality attempt must still return encoded data")
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize(bytes.NewReader([]byte("not an image")), "x.jpg"); err == nil {
		t.Error("Normalize should fail on non-image data")
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"house.png", "house.jpg"},
		{"house.webp", "house.jpg"},
		{"house.jpg", "house.jpg"},
		{"house", "house.jpg"},
		{".png", "image.jpg"},
	}
	for _, tt := range tests {
		if got := normalizeExtension(tt.in); got != tt.want {
			t.Errorf("normalizeExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSupportedMimeType(t *testing.T) {
	for _, mt := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		if !IsSupportedMimeType(mt) {
			t.Errorf("IsSupportedMimeType(%q) = false, want true", mt)
		}
	}
	for _, mt := range []string{"image/tiff", "application/pdf", "text/html", ""} {
		if IsSupportedMimeType(mt) {
			t.Errorf("IsSupportedMimeType(%q) = true, want false", mt)
		}
	}
}

func TestApplyOrientationDimensionSwap(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	// Orientations 5 through 8 rotate by 90 degrees and swap dimensions.
	for _, o := range []int{5, 6, 7, 8} {
		out := applyOrientation(img, o)
		if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 40 {
			t.Errorf("orientation %d: bounds = %v, want 20x40", o, out.Bounds())
		}
	}

	// Orientation 1 leaves the image untouched.
	out := applyOrientation(img, 1)
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 20 {
		t.Errorf("orientation 1: bounds = %v, want 40x20", out.Bounds())
	}
}
