package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnknownLayout is returned for a Layout outside the defined constants.
var ErrUnknownLayout = errors.New("unknown pixel layout")

// FromImage converts img into a new buffer with the given layout.
//
// Alpha is dropped when the layout has none; gray values use Rec. 709 luma
// for every source type. A *image.YCbCr source (what image/jpeg produces for
// color JPEGs) is read straight from its planes and yields the same bytes as
// converting an NRGBA copy of it.
func FromImage(img image.Image, layout Layout) (*Buffer, error) {
	if layout.Channels() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayout, uint8(layout))
	}
	if src, ok := img.(*image.YCbCr); ok {
		return fromYCbCr(src, layout), nil
	}

	bounds := img.Bounds()
	buf := New(layout, bounds.Dx(), bounds.Dy())
	at := sampler(img)
	c := layout.Channels()
	stride := buf.Stride()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := buf.Pix[(y-bounds.Min.Y)*stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			put(row[(x-bounds.Min.X)*c:], layout, at(x, y))
		}
	}
	return buf, nil
}

// sampler picks the cheapest way to read non-premultiplied pixels from img.
func sampler(img image.Image) func(x, y int) color.NRGBA {
	switch src := img.(type) {
	case *image.NRGBA:
		return src.NRGBAAt
	case *image.Gray:
		return func(x, y int) color.NRGBA {
			g := src.GrayAt(x, y).Y
			return color.NRGBA{R: g, G: g, B: g, A: 0xff}
		}
	case *image.RGBA:
		return func(x, y int) color.NRGBA {
			return color.NRGBAModel.Convert(src.RGBAAt(x, y)).(color.NRGBA)
		}
	default:
		return func(x, y int) color.NRGBA {
			return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		}
	}
}

func fromYCbCr(src *image.YCbCr, layout Layout) *Buffer {
	r := src.Rect
	buf := New(layout, r.Dx(), r.Dy())
	c := layout.Channels()
	stride := buf.Stride()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := buf.Pix[(y-r.Min.Y)*stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := src.YCbCrAt(x, y).RGBA()
			put(row[(x-r.Min.X)*c:], layout, color.NRGBA{R: uint8(cr >> 8), G: uint8(cg >> 8), B: uint8(cb >> 8), A: 0xff})
		}
	}
	return buf
}

func put(dst []uint8, layout Layout, c color.NRGBA) {
	switch layout {
	case RGB:
		dst[0], dst[1], dst[2] = c.R, c.G, c.B
	case RGBA:
		dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, c.A
	case BGR:
		dst[0], dst[1], dst[2] = c.B, c.G, c.R
	case BGRA:
		dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, c.A
	case Gray:
		dst[0] = luma(c)
	case GrayAlpha:
		dst[0], dst[1] = luma(c), c.A
	}
}

// luma uses the Rec. 709 coefficients scaled by 10000, rounded.
func luma(c color.NRGBA) uint8 {
	return uint8((2126*uint32(c.R) + 7152*uint32(c.G) + 722*uint32(c.B) + 5000) / 10000)
}
