package binder_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/pixbuf"
)

func encodeWith(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, testImage(4, 4)))
	return buf.Bytes()
}

func TestImage(t *testing.T) {
	t.Parallel()

	formats := map[string][]byte{
		"png":  pngBytes(t, 4, 4),
		"jpeg": encodeWith(t, func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) }),
		"gif":  encodeWith(t, func(b *bytes.Buffer, m image.Image) error { return gif.Encode(b, m, nil) }),
		"bmp":  encodeWith(t, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }),
	}

	for format, body := range formats {
		t.Run(format+" declared", func(t *testing.T) {
			t.Parallel()
			img, err := decode(t, binder.Image(), testPart{name: "img", contentType: "image/" + format, body: body})
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
		})

		t.Run(format+" sniffed", func(t *testing.T) {
			t.Parallel()
			img, err := decode(t, binder.Image(), testPart{name: "img", contentType: "application/octet-stream", body: body})
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
		})
	}

	t.Run("declared type wins over content", func(t *testing.T) {
		t.Parallel()
		_, err := decode(t, binder.Image(), testPart{name: "img", contentType: "image/jpeg", body: pngBytes(t, 2, 2)})
		assert.ErrorIs(t, err, binder.ErrImageDecode)
	})

	t.Run("unknown image subtype falls back to sniffing", func(t *testing.T) {
		t.Parallel()
		_, err := decode(t, binder.Image(), testPart{name: "img", contentType: "image/x-custom", body: pngBytes(t, 2, 2)})
		assert.NoError(t, err)
	})

	t.Run("corrupt bytes", func(t *testing.T) {
		t.Parallel()
		_, err := decode(t, binder.Image(), testPart{name: "img", contentType: "image/png", body: []byte("\x89PNG garbage")})
		assert.ErrorIs(t, err, binder.ErrImageDecode)

		_, err = decode(t, binder.Image(), testPart{name: "img", body: []byte("plain text")})
		assert.ErrorIs(t, err, binder.ErrImageDecode)
	})
}

func TestPixelDecoders(t *testing.T) {
	t.Parallel()

	body := pngBytes(t, 3, 3)
	src := testImage(3, 3)

	tests := []struct {
		name string
		dec  binder.Decoder[*pixbuf.Buffer]
		want func(c color.NRGBA) []uint8
	}{
		{"rgb", binder.RGB(), func(c color.NRGBA) []uint8 { return []uint8{c.R, c.G, c.B} }},
		{"rgba", binder.RGBA(), func(c color.NRGBA) []uint8 { return []uint8{c.R, c.G, c.B, c.A} }},
		{"bgr", binder.BGR(), func(c color.NRGBA) []uint8 { return []uint8{c.B, c.G, c.R} }},
		{"bgra", binder.BGRA(), func(c color.NRGBA) []uint8 { return []uint8{c.B, c.G, c.R, c.A} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf, err := decode(t, tt.dec, fileField("img", "a.png", "image/png", body))
			require.NoError(t, err)
			for y := range 3 {
				for x := range 3 {
					assert.Equal(t, tt.want(src.NRGBAAt(x, y)), buf.Pixel(x, y))
				}
			}
		})
	}

	t.Run("gray layouts", func(t *testing.T) {
		t.Parallel()
		gray, err := decode(t, binder.Gray(), fileField("img", "a.png", "image/png", body))
		require.NoError(t, err)
		assert.Len(t, gray.Pix, 9)

		ga, err := decode(t, binder.GrayAlpha(), fileField("img", "a.png", "image/png", body))
		require.NoError(t, err)
		assert.Len(t, ga.Pix, 18)
		for i := range 9 {
			assert.Equal(t, gray.Pix[i], ga.Pix[i*2])
			assert.Equal(t, uint8(0xff), ga.Pix[i*2+1])
		}
	})

	t.Run("jpeg takes the same layout", func(t *testing.T) {
		t.Parallel()
		jpg := encodeWith(t, func(b *bytes.Buffer, m image.Image) error {
			return jpeg.Encode(b, m, &jpeg.Options{Quality: 100})
		})
		buf, err := decode(t, binder.RGB(), fileField("img", "a.jpg", "image/jpeg", jpg))
		require.NoError(t, err)
		assert.Equal(t, pixbuf.RGB, buf.Layout)
		assert.Equal(t, 4, buf.Width)
		assert.Equal(t, 4, buf.Height)

		src, err := jpeg.Decode(bytes.NewReader(jpg))
		require.NoError(t, err)
		nrgba := image.NewNRGBA(src.Bounds())
		for y := range 4 {
			for x := range 4 {
				nrgba.Set(x, y, color.NRGBAModel.Convert(src.At(x, y)))
			}
		}

		want, err := pixbuf.FromImage(nrgba, pixbuf.RGB)
		require.NoError(t, err)
		assert.Equal(t, want.Pix, buf.Pix)

		gray, err := decode(t, binder.Gray(), fileField("img", "a.jpg", "image/jpeg", jpg))
		require.NoError(t, err)
		want, err = pixbuf.FromImage(nrgba, pixbuf.Gray)
		require.NoError(t, err)
		assert.Equal(t, want.Pix, gray.Pix)
	})
}
