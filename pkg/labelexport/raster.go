package labelexport

import (
	"image"
	"image/color"

	"github.com/Peratham/atc/pkg/annotdb"
	"github.com/fogleman/gg"
)

// Surface allocates drawing canvases. It is the seam between the export
// pipeline and the rasterization library.
type Surface interface {
	NewCanvas(width, height int) Canvas
}

// Canvas is a blank RGB image that polygons are filled onto.
// The background is black, which is why the colormap never assigns black.
//
// Fills must not blend: every drawn pixel carries the exact fill color, because
// the identity decode recovers object IDs by exact color match. A blended edge
// pixel would decode as background, or worse, as another object's color.
type Canvas interface {
	// FillPolygon draws the contour as a hard-edged filled polygon of solid color c.
	FillPolygon(points []annotdb.Point, c color.RGBA)
	// Image exposes the drawn pixels for the identity decode step.
	Image() *image.RGBA
	// SavePNG writes the color canvas as a PNG.
	SavePNG(path string) error
}

// GG is the fogleman/gg rasterization surface.
//
// gg's own Fill() anti-aliases, which would blend edge pixels against the
// background. So each polygon is rasterized alone into a coverage image, the
// coverage is thresholded at 50% into a binary mask, and the object's solid
// color is written through the mask. The contour is also stroked with a 2px pen
// of the same color before thresholding, matching the interactive drawing.
type GG struct{}

func (GG) NewCanvas(width, height int) Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &ggCanvas{img: img}
}

type ggCanvas struct {
	img *image.RGBA
}

func (c *ggCanvas) FillPolygon(points []annotdb.Point, col color.RGBA) {
	if len(points) < 3 {
		return
	}
	bounds := c.img.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(1, 1, 1)
	dc.MoveTo(float64(points[0].X), float64(points[0].Y))
	for _, p := range points[1:] {
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	dc.ClosePath()
	dc.FillPreserve()
	dc.SetLineWidth(2)
	dc.Stroke()

	coverage := dc.Image().(*image.RGBA)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if coverage.RGBAAt(x, y).R >= 128 {
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

func (c *ggCanvas) Image() *image.RGBA {
	return c.img
}

func (c *ggCanvas) SavePNG(path string) error {
	return gg.SavePNG(path, c.img)
}
