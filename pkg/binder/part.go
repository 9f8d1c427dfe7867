package binder

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"

	"github.com/elnormous/contenttype"
)

// defaultPartMediaType applies to parts without a Content-Type header (RFC 7578, section 4.4).
const defaultPartMediaType = "text/plain"

// Part is one named segment of a multipart body: its MIME header and a byte stream.
// A Part is owned by the schema decoding it and must not be shared.
type Part struct {
	Header textproto.MIMEHeader

	raw io.Reader // underlying stream, used for draining
	r   io.Reader // raw, optionally behind a size limit

	disp    Disposition
	dispErr error
	parsed  bool
}

// NewPart wraps a header and body into a Part.
func NewPart(header textproto.MIMEHeader, body io.Reader) *Part {
	if header == nil {
		header = make(textproto.MIMEHeader)
	}
	if body == nil {
		body = strings.NewReader("")
	}
	return &Part{Header: header, raw: body, r: body}
}

// Read reads the part body. Errors other than io.EOF from the underlying
// stream are reported as ErrTransport.
func (p *Part) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err == nil || err == io.EOF || errors.Is(err, ErrPartTooLarge) || errors.Is(err, ErrTransport) {
		return n, err
	}
	return n, fmt.Errorf("%w: %w", ErrTransport, err)
}

// Disposition returns the parsed Content-Disposition header.
// The header is parsed once; later calls return the cached result.
func (p *Part) Disposition() (Disposition, error) {
	if !p.parsed {
		p.parsed = true
		value := p.Header.Get("Content-Disposition")
		if value == "" {
			p.dispErr = fmt.Errorf("%w: missing header", ErrMalformedDisposition)
		} else {
			p.disp, p.dispErr = ParseDisposition(value)
		}
	}
	return p.disp, p.dispErr
}

// Name returns the form field name, or "" if the part has none.
func (p *Part) Name() string {
	d, err := p.Disposition()
	if err != nil {
		return ""
	}
	name, _ := d.Name()
	return name
}

// Filename returns the client supplied filename.
func (p *Part) Filename() (string, error) {
	d, err := p.Disposition()
	if err != nil {
		return "", err
	}
	return d.Filename()
}

// ContentType returns the declared media type of the part.
// Parts without a Content-Type header default to text/plain.
func (p *Part) ContentType() contenttype.MediaType {
	value := p.Header.Get("Content-Type")
	if value == "" {
		value = defaultPartMediaType
	}
	return contenttype.NewMediaType(value)
}

// Drain consumes and discards whatever is left of the part body and reports
// how many bytes were skipped. Size limits do not apply to draining.
func Drain(p *Part) (int64, error) {
	n, err := io.Copy(io.Discard, p.raw)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return n, nil
}

// limit caps the number of bytes decoders can read from the part.
func (p *Part) limit(n int64) {
	if n > 0 {
		p.r = &limitedReader{r: p.raw, n: n}
	}
}

// limitedReader mirrors http.MaxBytesReader: reading past n bytes fails with ErrPartTooLarge.
type limitedReader struct {
	r   io.Reader
	n   int64
	err error
}

func (l *limitedReader) Read(b []byte) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if int64(len(b))-1 > l.n {
		b = b[:l.n+1]
	}

	n, err := l.r.Read(b)
	if int64(n) <= l.n {
		l.n -= int64(n)
		l.err = err
		return n, err
	}

	n = int(l.n)
	l.n = 0
	l.err = ErrPartTooLarge
	return n, l.err
}

func mediaParam(mt contenttype.MediaType, key string) string {
	for k, v := range mt.Parameters {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
