// Package render draws editing sessions onto raster targets.
//
// A [Canvas] paints each cell as a filled square with a light gray outline,
// and a status strip below the cells showing the current brush.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/paint/brush"
	"github.com/BeatGlow/paint/draw"
	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"
)

// StatusHeight is the height of the status strip in pixels.
const StatusHeight = 20

// Outline is the color of the cell outlines.
var Outline color.Color = pixel.LightGray

// Refresher is implemented by targets that buffer drawing until refreshed,
// such as hardware displays.
type Refresher interface {
	Refresh() error
}

var (
	faceOnce sync.Once
	faceFont *truetype.Font
	faceErr  error
)

func statusFont() (*truetype.Font, error) {
	faceOnce.Do(func() {
		faceFont, faceErr = truetype.Parse(goregular.TTF)
	})
	return faceFont, faceErr
}

// Canvas renders cells onto a draw.Image.
type Canvas struct {
	dst    draw.Image
	origin image.Point
	size   int
	cell   int
	face   font.Face
	err    error
}

// NewCanvas renders a size×size grid onto dst with cells of cellPixelSize
// pixels, with the top-left corner of the grid at dst.Bounds().Min.
func NewCanvas(dst draw.Image, size, cellPixelSize int) (*Canvas, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render: invalid grid size %d", size)
	}
	if cellPixelSize <= 0 {
		return nil, fmt.Errorf("render: invalid cell size %d", cellPixelSize)
	}
	f, err := statusFont()
	if err != nil {
		return nil, fmt.Errorf("render: status font: %w", err)
	}
	return &Canvas{
		dst:    dst,
		origin: dst.Bounds().Min,
		size:   size,
		cell:   cellPixelSize,
		face: truetype.NewFace(f, &truetype.Options{
			Size:    StatusHeight * 3 / 5,
			DPI:     72,
			Hinting: font.HintingFull,
		}),
	}, nil
}

// Size returns the pixel size needed for a size×size grid with a status strip.
func Size(size, cellPixelSize int) image.Point {
	return image.Pt(size*cellPixelSize, size*cellPixelSize+StatusHeight)
}

// Fit returns the largest cell size that fits a size×size grid and the status
// strip into bounds, or 0 if not even one pixel cells fit.
func Fit(bounds image.Rectangle, size int) int {
	if size <= 0 {
		return 0
	}
	w, h := bounds.Dx(), bounds.Dy()-StatusHeight
	if h < w {
		w = h
	}
	if w < size {
		return 0
	}
	return w / size
}

// Close releases the font face.
func (c *Canvas) Close() error {
	return c.face.Close()
}

// Err returns the last error reported by the target while refreshing.
func (c *Canvas) Err() error {
	return c.err
}

// CellRect returns the pixel rectangle covered by the cell at (row, col).
func (c *Canvas) CellRect(row, col int) image.Rectangle {
	min := c.origin.Add(image.Pt(col*c.cell, row*c.cell))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(c.cell, c.cell))}
}

// StatusRect returns the pixel rectangle of the status strip.
func (c *Canvas) StatusRect() image.Rectangle {
	min := c.origin.Add(image.Pt(0, c.size*c.cell))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(c.size*c.cell, StatusHeight))}
}

func (c *Canvas) drawCell(row, col int, cell pixel.Cell) {
	r := c.CellRect(row, col)
	draw.Box(c.dst, r, cell.Color())
	if c.cell > 2 {
		draw.Rectangle(c.dst, r, Outline)
	}
}

// Render implements paint.Renderer.
func (c *Canvas) Render(changes []grid.Change) {
	for _, change := range changes {
		if change.Row < 0 || change.Row >= c.size || change.Col < 0 || change.Col >= c.size {
			continue
		}
		c.drawCell(change.Row, change.Col, change.Color)
	}
	c.refresh()
}

// Redraw repaints every cell of g.
func (c *Canvas) Redraw(g *grid.Grid) {
	c.Render(g.Changes())
}

// Status draws the brush size and color into the status strip.
func (c *Canvas) Status(cfg brush.Config) {
	r := c.StatusRect()
	draw.Box(c.dst, r, pixel.White)

	swatch := image.Rect(r.Min.X+2, r.Min.Y+2, r.Min.X+StatusHeight-2, r.Max.Y-2)
	draw.Box(c.dst, swatch, cfg.Color.Color())
	draw.Rectangle(c.dst, swatch, pixel.Black)

	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(pixel.Black),
		Face: c.face,
		Dot:  fixed.P(swatch.Max.X+4, r.Max.Y-StatusHeight/4),
	}
	d.DrawString(fmt.Sprintf("size %d  %s", cfg.Size, cfg.Color.Color()))
	c.refresh()
}

func (c *Canvas) refresh() {
	if r, ok := c.dst.(Refresher); ok {
		c.err = r.Refresh()
	}
}
