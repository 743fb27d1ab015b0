package testimage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size is the side length of the synthetic probe image.
const Size = 224

// fallbackBase64 is a 1x1 pixel PNG. It keeps the prediction probes
// exercisable when JPEG encoding fails for whatever reason.
const fallbackBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// Build renders the standard probe image: a red 224x224 canvas with a blue
// rectangle outlined in white and a "TEST" label, JPEG encoded, then base64
// encoded. If encoding fails it degrades to a fixed 1x1 payload rather than
// returning an error, so the caller always gets a decodable string.
func Build() string {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)

	inner := image.Rect(50, 50, 174, 174)
	draw.Draw(img, inner, image.NewUniform(color.RGBA{B: 255, A: 255}), image.Point{}, draw.Src)
	drawOutline(img, inner, color.White, 2)
	drawLabel(img, 100, 100, "TEST", color.White)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		slog.Warn("jpeg encoding unavailable, using fallback payload", "error", err)
		return fallbackBase64
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// FromFile reads an image file from disk and base64 encodes its bytes. The
// bytes are not validated as an image; the service under test decides what
// it accepts.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading image file %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func drawOutline(img draw.Image, rect image.Rectangle, c color.Color, width int) {
	fill := image.NewUniform(c)
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y)
	right := image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(img, edge, fill, image.Point{}, draw.Src)
	}
}

func drawLabel(img draw.Image, x, y int, label string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
