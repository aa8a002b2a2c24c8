package app

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// pointCanvas shows the rendered demo image and reports taps in image
// pixel coordinates.
type pointCanvas struct {
	widget.BaseWidget

	width, height int
	image         *canvas.Image
	onTap         func(x, y int)
}

func newPointCanvas(width, height int, onTap func(x, y int)) *pointCanvas {
	img := canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, width, height)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(float32(width), float32(height)))
	c := &pointCanvas{width: width, height: height, image: img, onTap: onTap}
	c.ExtendBaseWidget(c)
	return c
}

func (c *pointCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.image)
}

func (c *pointCanvas) MinSize() fyne.Size {
	return fyne.NewSize(float32(c.width), float32(c.height))
}

// Tapped implements fyne.Tappable.
func (c *pointCanvas) Tapped(ev *fyne.PointEvent) {
	if c.onTap == nil {
		return
	}
	x, y := c.toPixel(ev.Position)
	c.onTap(x, y)
}

func (c *pointCanvas) toPixel(pos fyne.Position) (int, int) {
	size := c.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return int(pos.X), int(pos.Y)
	}
	x := int(pos.X * float32(c.width) / size.Width)
	y := int(pos.Y * float32(c.height) / size.Height)
	return x, y
}

func (c *pointCanvas) setImage(img image.Image) {
	c.image.Image = img
	c.image.Refresh()
}
