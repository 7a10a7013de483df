package logo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
)

const (
	// Trim scores each channel difference d as (d + d) / trimScale + trimOffset
	// and counts a pixel as content when any score is positive.
	trimScale  = 2.0
	trimOffset = -100.0
)

// transparent is the canvas fill: white with zero alpha.
var transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Load reads the image at path and converts it to non-premultiplied RGBA
// with its origin at (0, 0).
func Load(path string) (*image.NRGBA, error) {
	_, statErr := os.Stat(path)
	if errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: source image not found at %s", ErrFileNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %w", ErrDecodeFailure, path, err)
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode %s: %w", ErrDecodeFailure, path, err)
	}

	return imaging.Clone(img), nil
}

// Trim crops away the border that matches the color of the top-left pixel.
// An image with no content beyond that color is returned unchanged.
func Trim(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	if bounds.Empty() {
		return img
	}

	background := img.NRGBAAt(bounds.Min.X, bounds.Min.Y)
	box := image.Rectangle{}
	found := false

	visitPixels(img, func(x, y int, c color.NRGBA) {
		if !differsFrom(c, background) {
			return
		}

		pixel := image.Rect(x, y, x+1, y+1)
		if !found {
			box = pixel
			found = true

			return
		}

		box = box.Union(pixel)
	})

	if !found {
		return img
	}

	return imaging.Crop(img, box)
}

// visitPixels calls visitor for every pixel in row-major order.
func visitPixels(img *image.NRGBA, visitor func(x, y int, c color.NRGBA)) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			visitor(x, y, img.NRGBAAt(x, y))
		}
	}
}

// differsFrom reports whether any channel of c is far enough from bg to
// count as content.
func differsFrom(c, bg color.NRGBA) bool {
	return amplifiedDifference(c.R, bg.R) > 0 ||
		amplifiedDifference(c.G, bg.G) > 0 ||
		amplifiedDifference(c.B, bg.B) > 0 ||
		amplifiedDifference(c.A, bg.A) > 0
}

// amplifiedDifference returns the channel difference, amplified and
// clamped to 0..255.
func amplifiedDifference(a, b uint8) uint8 {
	diff := float64(a) - float64(b)
	if diff < 0 {
		diff = -diff
	}

	score := (diff+diff)/trimScale + trimOffset

	switch {
	case score <= 0:
		return 0
	case score >= 255:
		return 255
	default:
		return uint8(score)
	}
}

// CenterOnSquare copies img onto a transparent square canvas whose side is
// the larger image dimension plus padding on both sides. Odd remainders
// leave the extra pixel on the bottom and right.
func CenterOnSquare(img *image.NRGBA, padding int) *image.NRGBA {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	side := max(width, height) + 2*padding

	canvas := imaging.New(side, side, transparent)
	offset := image.Pt((side-width)/2, (side-height)/2)

	return imaging.Paste(canvas, img, offset)
}

// Resize scales img to exactly size x size pixels with a Lanczos filter.
func Resize(img image.Image, size int) *image.NRGBA {
	return imaging.Resize(img, size, size, imaging.Lanczos)
}
