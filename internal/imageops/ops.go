package imageops

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Crop extracts the region (x1,y1)-(x2,y2) from img as a new image.
func Crop(img image.Image, x1, y1, x2, y2 int) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// Composite alpha-blends overlay onto base with the overlay's top-left
// corner at (x, y), using the overlay's own alpha channel as the blend
// mask. The result has base's dimensions; base is not modified.
func Composite(base, overlay image.Image, x, y int) *image.NRGBA {
	// Position the overlay on a transparent canvas the size of the base so
	// the blend leaves every uncovered base pixel untouched.
	bb := base.Bounds()
	canvas := imaging.New(bb.Dx(), bb.Dy(), color.NRGBA{})
	canvas = imaging.Paste(canvas, overlay, image.Pt(x, y))

	return imaging.Clone(blend.Normal(base, canvas))
}

// MaskOutside returns a copy of img in which every pixel outside the
// inclusive rectangle [left,top]..[right,bottom] has its alpha forced to
// zero. Pixels inside the rectangle keep their original alpha.
func MaskOutside(img image.Image, left, top, right, bottom int) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()

	for yy := bounds.Min.Y; yy < bounds.Max.Y; yy++ {
		for xx := bounds.Min.X; xx < bounds.Max.X; xx++ {
			if xx >= left && xx <= right && yy >= top && yy <= bottom {
				continue
			}
			i := out.PixOffset(xx, yy)
			out.Pix[i+3] = 0
		}
	}
	return out
}
