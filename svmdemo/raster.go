package svmdemo

import (
	"image"
	"image/color"
)

// Colours used when painting the canvas.
var (
	RegionColourA    = color.NRGBA{R: 100, G: 100, B: 200, A: 255}
	RegionColourB    = color.NRGBA{R: 100, G: 200, B: 100, A: 255}
	PointColourA     = color.NRGBA{B: 255, A: 255}
	PointColourB     = color.NRGBA{G: 255, A: 255}
	SupportColour    = color.NRGBA{R: 255, G: 255, A: 255}
	BackgroundColour = color.NRGBA{R: 192, G: 192, B: 192, A: 255}
)

// RegionColour returns the background colour for a predicted label.
func RegionColour(l Label) color.NRGBA {
	if l == LabelA {
		return RegionColourA
	}
	return RegionColourB
}

// PointColour returns the marker colour for a point of the given label.
func PointColour(l Label) color.NRGBA {
	if l == LabelA {
		return PointColourA
	}
	return PointColourB
}

// DecisionRaster holds the predicted label of every canvas pixel.
type DecisionRaster struct {
	width  int
	height int
	labels []Label
}

// NewDecisionRaster allocates a raster of the given size with every pixel
// set to LabelA.
func NewDecisionRaster(width, height int) *DecisionRaster {
	return &DecisionRaster{
		width:  width,
		height: height,
		labels: make([]Label, width*height),
	}
}

// Bounds returns the raster size.
func (r *DecisionRaster) Bounds() (int, int) {
	return r.width, r.height
}

// At returns the label predicted for pixel (x, y).
func (r *DecisionRaster) At(x, y int) Label {
	return r.labels[y*r.width+x]
}

func (r *DecisionRaster) set(x, y int, l Label) {
	r.labels[y*r.width+x] = l
}

// Count returns how many pixels carry the label.
func (r *DecisionRaster) Count(l Label) int {
	n := 0
	for _, v := range r.labels {
		if v == l {
			n++
		}
	}
	return n
}

// Equal reports whether both rasters have the same size and labels.
func (r *DecisionRaster) Equal(o *DecisionRaster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.width != o.width || r.height != o.height {
		return false
	}
	for i := range r.labels {
		if r.labels[i] != o.labels[i] {
			return false
		}
	}
	return true
}

// Image paints the raster with the region colours.
func (r *DecisionRaster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			img.SetNRGBA(x, y, RegionColour(r.At(x, y)))
		}
	}
	return img
}
