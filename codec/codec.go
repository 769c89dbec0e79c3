// Package codec converts grids to and from raster image files.
//
// Grids are exported one pixel per cell and upscaled with nearest neighbor
// scaling to a display resolution. Imported images are resampled to the grid
// size the same way, so a grid saved at an integer multiple of its size loads
// back unchanged.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/BeatGlow/paint/grid"
	"github.com/BeatGlow/paint/pixel"

	// Additional decoders.
	_ "image/gif"
	_ "image/jpeg"
)

// DefaultDisplaySize is the default exported image width and height in pixels.
const DefaultDisplaySize = 400

// Errors
var (
	ErrIO                = errors.New("codec: I/O error")
	ErrUnsupportedFormat = errors.New("codec: unsupported image format")
	ErrDisplaySize       = errors.New("codec: display size must be positive")
)

// IOError is returned when an image can't be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	if err.Path == "" {
		return "codec: " + err.Op + ": " + err.Err.Error()
	}
	return "codec: " + err.Op + " " + err.Path + ": " + err.Err.Error()
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// Is reports ErrIO as the target.
func (err *IOError) Is(target error) bool {
	return target == ErrIO
}

// Format is a raster file format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatOf returns the format for the extension of path. Paths without an
// extension are PNG.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
}

// Options control the exported raster.
type Options struct {
	// DisplaySize is the width and height of the exported image in pixels.
	DisplaySize int
}

// DefaultOptions are the default export options.
var DefaultOptions = Options{
	DisplaySize: DefaultDisplaySize,
}

// Native returns the grid as an RGBA image with one pixel per cell. Unset
// cells are white.
func Native(g *grid.Grid) *image.RGBA {
	var (
		n   = g.Size()
		img = image.NewRGBA(image.Rect(0, 0, n, n))
	)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c, _ := g.Get(y, x)
			v := c.Color()
			img.SetRGBA(x, y, color.RGBA{R: v.R, G: v.G, B: v.B, A: 0xff})
		}
	}
	return img
}

// Export renders the grid and scales it to size×size pixels with nearest
// neighbor scaling.
func Export(g *grid.Grid, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrDisplaySize, size)
	}
	src := Native(g)
	if size == g.Size() {
		return src, nil
	}
	return Scale(src, size, size), nil
}

// Scale resamples src to w×h pixels with nearest neighbor scaling.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) (err error) {
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	return nil
}

// Decode reads an image from r and resamples it to size×size cells.
// The image is fully decoded before any cell is produced.
func Decode(r io.Reader, size int) ([][]pixel.Cell, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", grid.ErrSize, size)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, &IOError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)}
		}
		return nil, &IOError{Op: "decode", Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &IOError{Op: "decode", Err: errors.New("empty image")}
	}
	return Cells(img, size), nil
}

// Cells samples img at size×size points with nearest neighbor scaling.
func Cells(img image.Image, size int) [][]pixel.Cell {
	var (
		b     = img.Bounds()
		cells = make([][]pixel.Cell, size)
	)
	for r := range cells {
		cells[r] = make([]pixel.Cell, size)
		y := b.Min.Y + grid.Nearest(r, size, b.Dy())
		for c := range cells[r] {
			x := b.Min.X + grid.Nearest(c, size, b.Dx())
			cells[r][c] = pixel.FromColor(img.At(x, y))
		}
	}
	return cells
}
