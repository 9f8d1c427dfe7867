package binder

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/htmlindex"
)

// Bytes returns the part body as-is. It only fails when the body cannot be read.
func Bytes() Decoder[[]byte] {
	return DecoderFunc[[]byte](func(ctx context.Context, p *Part) ([]byte, error) {
		return readAll(ctx, p)
	})
}

// String decodes the part body as text. A charset parameter on the part
// content type is honoured and transcoded to UTF-8; otherwise the body must
// already be valid UTF-8.
func String() Decoder[string] {
	return DecoderFunc[string](func(ctx context.Context, p *Part) (string, error) {
		b, err := readAll(ctx, p)
		if err != nil {
			return "", err
		}

		if charset := mediaParam(p.ContentType(), "charset"); charset != "" && !isUTF8(charset) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return "", fmt.Errorf("%w: unsupported charset %q", ErrStringDecode, charset)
			}
			if b, err = enc.NewDecoder().Bytes(b); err != nil {
				return "", fmt.Errorf("%w: %w", ErrStringDecode, err)
			}
		}

		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: invalid UTF-8 sequence", ErrStringDecode)
		}
		return string(b), nil
	})
}

func isUTF8(charset string) bool {
	return strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}

// UUID parses the part body as a textual UUID.
func UUID() Decoder[uuid.UUID] {
	str := String()
	return DecoderFunc[uuid.UUID](func(ctx context.Context, p *Part) (uuid.UUID, error) {
		s, err := str.Decode(ctx, p)
		if err != nil {
			return uuid.Nil, err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return id, nil
	})
}

// Time decodes a JSON string holding an RFC 3339 timestamp.
func Time() Decoder[time.Time] {
	return JSON[time.Time]()
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05.999999999"
)

// Date decodes a JSON string holding a calendar date ("2006-01-02") as midnight UTC.
func Date() Decoder[time.Time] {
	return layoutDecoder(dateLayout)
}

// DateTime decodes a JSON string holding a timestamp without zone offset,
// with optional fractional seconds. The result is in UTC.
func DateTime() Decoder[time.Time] {
	return layoutDecoder(dateTimeLayout)
}

func layoutDecoder(layout string) Decoder[time.Time] {
	str := JSON[string]()
	return DecoderFunc[time.Time](func(ctx context.Context, p *Part) (time.Time, error) {
		s, err := str.Decode(ctx, p)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return t, nil
	})
}
