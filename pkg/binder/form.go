package binder

import (
	"errors"
	"fmt"
	"maps"
	"mime"
	"net/http"
	"net/textproto"
	"slices"
	"strings"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Form decodes an application/x-www-form-urlencoded body into T.
//
// Every value runs through the decoder its field registered, exactly as a
// multipart part carrying that value as a UTF-8 text body would. A schema
// that reads JSON reads it from the form value too:
//
//	s := binder.NewSchema(
//		binder.Required("animal_desc", binder.JSON[AnimalDesc](), func(r *FormRequest) *AnimalDesc { return &r.AnimalDesc }),
//	)
//	// animal_desc={"name":"Rex","kind":"dog"}
//
// The schema stays authoritative: keys it does not register fail with
// ErrNoSuchField and absent required names fail with ErrMissingField, the
// same as on the multipart path. Fields are visited in schema order and the
// first failure is returned. The body is capped at Config.MaxFormSize.
func Form[T any](r *http.Request, s *Schema[T]) (T, error) {
	var zero T
	ctx := r.Context()

	if s.cfg.MaxFormSize > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, s.cfg.MaxFormSize)
	}
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return zero, fmt.Errorf("%w: %w", ErrTransport, maxErr)
		}
		return zero, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	values := r.PostForm

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, ok := s.fields[key]; !ok {
			s.log.DebugContext(ctx, "unknown form key", logger.Field(key))
			return zero, fieldError(key, ErrNoSuchField)
		}
	}

	var rec T
	for _, name := range s.order {
		s.fields[name].init(&rec)
	}

	for _, name := range s.order {
		f := s.fields[name]
		vals := values[name]
		if len(vals) == 0 {
			if f.kind == kindRequired {
				return zero, fieldError(name, ErrMissingField)
			}
			continue
		}
		for _, v := range vals {
			if err := f.decode(ctx, formPart(name, v), &rec); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return zero, ctxErr
				}
				s.log.DebugContext(ctx, "field decode failed",
					logger.Field(name),
					logger.Kind(f.kind.String()),
					logger.Error(err),
				)
				return zero, fieldError(name, err)
			}
		}
	}

	return rec, nil
}

// formPart presents one form value as the text part a multipart client
// would have sent for it.
func formPart(name, value string) *Part {
	h := make(textproto.MIMEHeader, 2)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": name}))
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return NewPart(h, strings.NewReader(value))
}
