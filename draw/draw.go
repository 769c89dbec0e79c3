// Package draw has the raster primitives used to paint cells and outlines.
//
// Shapes are drawn with a single color and clipped by the destination's Set.
// Rectangles follow image.Rectangle semantics: Max is exclusive.
package draw

import "image/draw"

// Image is an alias for [image/draw.Image].
type Image = draw.Image
