package svmdemo

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	pointRadius   = 3
	supportRadius = 7
)

// Render paints the canvas for snap: base (the painted decision raster) or
// a grey background when base is nil, a yellow disc behind every support
// vector and a coloured dot per point.
func Render(snap Snapshot, width, height int, base image.Image) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if base != nil {
		draw.Draw(img, img.Bounds(), base, base.Bounds().Min, draw.Src)
	} else {
		draw.Draw(img, img.Bounds(), image.NewUniform(BackgroundColour), image.Point{}, draw.Src)
	}
	for _, idx := range snap.SupportVectors {
		if idx < 0 || idx >= len(snap.Points) {
			continue
		}
		p := snap.Points[idx]
		fillCircle(img, p.X, p.Y, supportRadius, SupportColour)
	}
	for _, p := range snap.Points {
		fillCircle(img, p.X, p.Y, pointRadius, PointColour(p.Label))
	}
	return img
}

func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if image.Pt(x, y).In(b) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
