// Package pixel implements the colors used by the paint editor.
//
// A grid cell holds an optional [RGB] value, see [Cell]. The package also
// provides 15- and 16-bit RGB color models and images for framebuffer targets,
// compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces.
package pixel
