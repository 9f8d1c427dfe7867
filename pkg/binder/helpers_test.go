package binder_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/binder"
)

// trackingReader records how much of a part body was consumed.
type trackingReader struct {
	r    io.Reader
	read int
	eof  bool
}

func (t *trackingReader) Read(b []byte) (int, error) {
	n, err := t.r.Read(b)
	t.read += n
	if err == io.EOF {
		t.eof = true
	}
	return n, err
}

type testPart struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func textField(name, body string) testPart {
	return testPart{name: name, body: []byte(body)}
}

func fileField(name, filename, contentType string, body []byte) testPart {
	return testPart{name: name, filename: filename, contentType: contentType, body: body}
}

func (tp testPart) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	disp := fmt.Sprintf(`form-data; name=%q`, tp.name)
	if tp.filename != "" {
		disp += fmt.Sprintf(`; filename=%q`, tp.filename)
	}
	h.Set("Content-Disposition", disp)
	if tp.contentType != "" {
		h.Set("Content-Type", tp.contentType)
	}
	return h
}

// newPart builds a part and returns the reader tracking its consumption.
func newPart(tp testPart) (*binder.Part, *trackingReader) {
	tr := &trackingReader{r: bytes.NewReader(tp.body)}
	return binder.NewPart(tp.header(), tr), tr
}

// newRawPart builds a part with a verbatim Content-Disposition value.
func newRawPart(disposition, body string) (*binder.Part, *trackingReader) {
	h := make(textproto.MIMEHeader)
	if disposition != "" {
		h.Set("Content-Disposition", disposition)
	}
	tr := &trackingReader{r: strings.NewReader(body)}
	return binder.NewPart(h, tr), tr
}

// sourceOf builds an in-memory source and the trackers for each part.
func sourceOf(parts ...testPart) (binder.Source, []*trackingReader) {
	ps := make([]*binder.Part, len(parts))
	trs := make([]*trackingReader, len(parts))
	for i, tp := range parts {
		ps[i], trs[i] = newPart(tp)
	}
	return binder.SliceSource(ps...), trs
}

// multipartBody encodes parts as a multipart/form-data body.
func multipartBody(t *testing.T, parts ...testPart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, tp := range parts {
		pw, err := w.CreatePart(tp.header())
		require.NoError(t, err)
		_, err = pw.Write(tp.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

// pngBytes encodes a small image with distinct pixel colors.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 40),
				G: uint8(y * 40),
				B: uint8((x + y) * 20),
				A: 0xff,
			})
		}
	}
	return img
}
