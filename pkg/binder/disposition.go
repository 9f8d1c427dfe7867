package binder

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// Disposition holds the parameters of a form-data Content-Disposition header,
// keyed by lower-cased parameter name with quoting removed.
type Disposition map[string]string

// ParseDisposition parses a Content-Disposition header value.
//
// The first segment must be exactly "form-data"; every following segment is a
// key=value pair. Values may be quoted, in which case the quotes are stripped
// and backslash escapes resolved. A repeated key keeps its last value.
func ParseDisposition(value string) (Disposition, error) {
	segments := splitParams(value)
	if len(segments) == 0 || strings.TrimSpace(segments[0]) != "form-data" {
		return nil, fmt.Errorf("%w: expected form-data, got %q", ErrMalformedDisposition, value)
	}

	d := make(Disposition, len(segments)-1)
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q has no value", ErrMalformedDisposition, seg)
		}

		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			return nil, fmt.Errorf("%w: empty parameter name", ErrMalformedDisposition)
		}

		val, err := unquote(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrMalformedDisposition, key, err)
		}
		d[key] = val
	}

	return d, nil
}

// Name returns the form field name.
func (d Disposition) Name() (string, bool) {
	name, ok := d["name"]
	return name, ok
}

// Filename returns the client supplied filename. An RFC 5987 encoded
// filename* parameter takes precedence over a plain filename.
func (d Disposition) Filename() (string, error) {
	if ext, ok := d["filename*"]; ok {
		return decodeExtValue(ext)
	}

	name, ok := d["filename"]
	if !ok {
		return "", ErrNoFilename
	}
	if !utf8.ValidString(name) {
		return "", ErrFilenameEncoding
	}
	return name, nil
}

// splitParams splits on ';' outside of quoted strings.
func splitParams(s string) []string {
	var (
		out     []string
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ';' && !quoted:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func unquote(v string) (string, error) {
	if !strings.HasPrefix(v, `"`) {
		return v, nil
	}
	if len(v) < 2 || !strings.HasSuffix(v, `"`) {
		return "", fmt.Errorf("unterminated quoted string")
	}

	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v, nil
	}

	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String(), nil
}

// decodeExtValue decodes an RFC 5987 ext-value: charset'language'pct-encoded.
func decodeExtValue(v string) (string, error) {
	charset, rest, ok := strings.Cut(v, "'")
	if !ok {
		return "", fmt.Errorf("%w: malformed filename*", ErrFilenameEncoding)
	}
	_, encoded, ok := strings.Cut(rest, "'")
	if !ok {
		return "", fmt.Errorf("%w: malformed filename*", ErrFilenameEncoding)
	}

	raw, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFilenameEncoding, err)
	}

	if !strings.EqualFold(charset, "utf-8") {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return "", fmt.Errorf("%w: unsupported charset %q", ErrFilenameEncoding, charset)
		}
		raw, err = enc.NewDecoder().String(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrFilenameEncoding, err)
		}
	}

	if !utf8.ValidString(raw) {
		return "", ErrFilenameEncoding
	}
	return raw, nil
}
