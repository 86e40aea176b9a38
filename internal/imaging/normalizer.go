// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded photos before they are stored:
// EXIF auto-orientation, a bounded resize, and an iterative quality search
// that keeps the encoded result near a byte-size budget.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Normalization bounds. The byte budget is a best-effort target, not a hard
// cap: the lowest-quality attempt is returned even when still over budget.
const (
	MaxWidth     = 2000
	MaxHeight    = 2000
	TargetBytes  = 500_000 // 500 KB
	StartQuality = 85
	RetryQuality = 75
	QualityStep  = 5
	FloorQuality = 60
)

// Result contains the outcome of normalizing an uploaded image.
type Result struct {
	Data         []byte
	Filename     string // extension normalized to .jpg
	Width        int
	Height       int
	OriginalSize int64
	FinalSize    int64
	Quality      int
}

// Normalize decodes an uploaded image, auto-rotates it per its EXIF
// orientation, resizes it to fit within MaxWidth x MaxHeight preserving
// aspect ratio, and re-encodes it as JPEG. If the first pass at
// StartQuality exceeds TargetBytes, it retries from RetryQuality stepping
// down by QualityStep until under budget or FloorQuality is reached.
func Normalize(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	if bounds.Dx() > MaxWidth || bounds.Dy() > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
		bounds = img.Bounds()
	}

	quality := StartQuality
	encoded, err := encodeJPEG(img, quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	if int64(len(encoded)) > TargetBytes {
		for q := RetryQuality; q >= FloorQuality; q -= QualityStep {
			quality = q
			encoded, err = encodeJPEG(img, q)
			if err != nil {
				return nil, fmt.Errorf("encoding image at quality %d: %w", q, err)
			}
			if int64(len(encoded)) <= TargetBytes {
				break
			}
		}
	}

	return &Result{
		Data:         encoded,
		Filename:     normalizeExtension(filename),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		OriginalSize: int64(len(data)),
		FinalSize:    int64(len(encoded)),
		Quality:      quality,
	}, nil
}

// encodeJPEG encodes an image as JPEG at the given quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeExtension replaces the filename's extension with .jpg.
func normalizeExtension(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// DetectMimeType detects the MIME type of image data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// supportedMimeTypes are the upload formats the normalizer accepts.
var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsSupportedMimeType reports whether a MIME type can be normalized.
func IsSupportedMimeType(mimeType string) bool {
	return supportedMimeTypes[mimeType]
}
