package pixbuf

import (
	"fmt"
	"image"
	"image/color"
)

// Layout describes the channel order of a packed 8-bit pixel.
type Layout uint8

const (
	RGB Layout = iota + 1
	RGBA
	Gray
	GrayAlpha
	BGR
	BGRA
)

// Channels returns the number of bytes per pixel.
func (l Layout) Channels() int {
	switch l {
	case Gray:
		return 1
	case GrayAlpha:
		return 2
	case RGB, BGR:
		return 3
	case RGBA, BGRA:
		return 4
	default:
		return 0
	}
}

func (l Layout) String() string {
	switch l {
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	case Gray:
		return "gray"
	case GrayAlpha:
		return "gray_alpha"
	case BGR:
		return "bgr"
	case BGRA:
		return "bgra"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// Buffer is a packed, row-major 8-bit image with non-premultiplied alpha.
// The origin is always (0, 0).
type Buffer struct {
	Layout Layout
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed buffer.
func New(layout Layout, width, height int) *Buffer {
	return &Buffer{
		Layout: layout,
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*layout.Channels()),
	}
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * b.Layout.Channels()
}

// Pixel returns the channel bytes of the pixel at (x, y).
func (b *Buffer) Pixel(x, y int) []uint8 {
	c := b.Layout.Channels()
	i := y*b.Stride() + x*c
	return b.Pix[i : i+c : i+c]
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image, so a Buffer can be handed to any image encoder.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	px := b.Pixel(x, y)
	switch b.Layout {
	case Gray:
		return color.NRGBA{R: px[0], G: px[0], B: px[0], A: 0xff}
	case GrayAlpha:
		return color.NRGBA{R: px[0], G: px[0], B: px[0], A: px[1]}
	case RGB:
		return color.NRGBA{R: px[0], G: px[1], B: px[2], A: 0xff}
	case RGBA:
		return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
	case BGR:
		return color.NRGBA{R: px[2], G: px[1], B: px[0], A: 0xff}
	case BGRA:
		return color.NRGBA{R: px[2], G: px[1], B: px[0], A: px[3]}
	default:
		return color.NRGBA{}
	}
}
