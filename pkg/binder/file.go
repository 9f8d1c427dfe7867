package binder

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/elnormous/contenttype"
)

// File wraps a decoded part together with the filename and media type the
// client declared for it.
type File[V any] struct {
	// Name is the filename from the part's Content-Disposition, as sent.
	Name string
	// MIME is the declared content type of the part.
	MIME contenttype.MediaType
	// Inner is the part body decoded by the wrapped decoder.
	Inner V
}

// SafeName returns Name stripped of directory components and null bytes,
// suitable for use as a storage key.
func (f File[V]) SafeName() string {
	return sanitizeFilename(f.Name)
}

// MediaType returns the declared content type without parameters, e.g. "image/png".
func (f File[V]) MediaType() string {
	if f.MIME.Type == "" {
		return ""
	}
	return f.MIME.Type + "/" + f.MIME.Subtype
}

// FileOf wraps inner so the decoded value carries the part's filename and
// content type. Parts without a filename fail with ErrNoFilename before the
// body is read.
//
// Example:
//
//	type UploadRequest struct {
//		Avatar binder.File[*pixbuf.Buffer]
//		Notes  binder.File[string]
//	}
//
//	binder.Required("avatar", binder.FileOf(binder.RGBA()), func(r *UploadRequest) *binder.File[*pixbuf.Buffer] {
//		return &r.Avatar
//	})
func FileOf[V any](inner Decoder[V]) Decoder[File[V]] {
	return DecoderFunc[File[V]](func(ctx context.Context, p *Part) (File[V], error) {
		name, err := p.Filename()
		if err != nil {
			return File[V]{}, err
		}

		v, err := inner.Decode(ctx, p)
		if err != nil {
			return File[V]{}, err
		}

		return File[V]{Name: name, MIME: p.ContentType(), Inner: v}, nil
	})
}

// sanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks.
func sanitizeFilename(filename string) string {
	// Normalize Windows separators so filepath.Base strips them too
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
