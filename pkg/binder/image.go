package binder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/dmitrymomot/formkit/pkg/pixbuf"
)

// imageFormats maps an image/* subtype to its decoder. Importing the
// packages also registers them for signature based guessing in image.Decode.
var imageFormats = map[string]func(io.Reader) (image.Image, error){
	"jpeg":  jpeg.Decode,
	"jpg":   jpeg.Decode,
	"pjpeg": jpeg.Decode,
	"png":   png.Decode,
	"gif":   gif.Decode,
	"bmp":   bmp.Decode,
	"x-bmp": bmp.Decode,
	"webp":  webp.Decode,
	"tiff":  tiff.Decode,
}

// Image decodes the part body into an image.Image. A declared image/*
// content type of a known format selects that decoder; anything else falls
// back to guessing the format from the leading bytes.
func Image() Decoder[image.Image] {
	return DecoderFunc[image.Image](func(ctx context.Context, p *Part) (image.Image, error) {
		body, err := readAll(ctx, p)
		if err != nil {
			return nil, err
		}
		return decodeImage(body, p)
	})
}

func decodeImage(body []byte, p *Part) (image.Image, error) {
	mt := p.ContentType()
	if strings.EqualFold(mt.Type, "image") {
		if decode, ok := imageFormats[strings.ToLower(mt.Subtype)]; ok {
			img, err := decode(bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
			}
			return img, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	return img, nil
}

// Pixels decodes an image and converts it to the given layout.
func Pixels(layout pixbuf.Layout) Decoder[*pixbuf.Buffer] {
	img := Image()
	return DecoderFunc[*pixbuf.Buffer](func(ctx context.Context, p *Part) (*pixbuf.Buffer, error) {
		src, err := img.Decode(ctx, p)
		if err != nil {
			return nil, err
		}
		buf, err := pixbuf.FromImage(src, layout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
		}
		return buf, nil
	})
}

func RGB() Decoder[*pixbuf.Buffer]       { return Pixels(pixbuf.RGB) }
func RGBA() Decoder[*pixbuf.Buffer]      { return Pixels(pixbuf.RGBA) }
func Gray() Decoder[*pixbuf.Buffer]      { return Pixels(pixbuf.Gray) }
func GrayAlpha() Decoder[*pixbuf.Buffer] { return Pixels(pixbuf.GrayAlpha) }
func BGR() Decoder[*pixbuf.Buffer]       { return Pixels(pixbuf.BGR) }
func BGRA() Decoder[*pixbuf.Buffer]      { return Pixels(pixbuf.BGRA) }
