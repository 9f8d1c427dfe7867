package binder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

type fieldKind uint8

const (
	kindRequired fieldKind = iota + 1
	kindOptional
	kindRepeated
)

func (k fieldKind) String() string {
	switch k {
	case kindRequired:
		return "required"
	case kindOptional:
		return "optional"
	case kindRepeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Field binds one part name of a record of type T to a decoder and a
// location in the record. Build fields with Required, Optional and Repeated.
type Field[T any] struct {
	name   string
	kind   fieldKind
	init   func(*T)
	decode func(ctx context.Context, p *Part, rec *T) error
}

// Name returns the part name the field matches.
func (f Field[T]) Name() string { return f.name }

// Required matches exactly one part (the last one wins if the name repeats).
// Decoding fails with ErrMissingField when no part carries the name.
func Required[T, V any](name string, dec Decoder[V], at func(*T) *V) Field[T] {
	return Field[T]{
		name: name,
		kind: kindRequired,
		init: func(*T) {},
		decode: func(ctx context.Context, p *Part, rec *T) error {
			v, err := dec.Decode(ctx, p)
			if err != nil {
				return err
			}
			*at(rec) = v
			return nil
		},
	}
}

// Optional leaves the field nil when no part carries the name. If the name
// repeats, the last part wins.
func Optional[T, V any](name string, dec Decoder[V], at func(*T) **V) Field[T] {
	return Field[T]{
		name: name,
		kind: kindOptional,
		init: func(rec *T) { *at(rec) = nil },
		decode: func(ctx context.Context, p *Part, rec *T) error {
			v, err := dec.Decode(ctx, p)
			if err != nil {
				return err
			}
			*at(rec) = &v
			return nil
		},
	}
}

// Repeated appends one value per matching part, in arrival order. The field
// is an empty, non-nil slice when no part carries the name.
func Repeated[T, V any](name string, dec Decoder[V], at func(*T) *[]V) Field[T] {
	return Field[T]{
		name: name,
		kind: kindRepeated,
		init: func(rec *T) { *at(rec) = []V{} },
		decode: func(ctx context.Context, p *Part, rec *T) error {
			v, err := dec.Decode(ctx, p)
			if err != nil {
				return err
			}
			s := at(rec)
			*s = append(*s, v)
			return nil
		},
	}
}

// Schema decodes multipart bodies into records of type T.
//
// Part names are matched exactly against the registered fields; a part
// with an unregistered name is an error (ErrNoSuchField). Once an error is
// recorded, the remaining parts are drained without being decoded so the
// body is always consumed to its end.
//
// A Schema is immutable once built and safe for concurrent use.
type Schema[T any] struct {
	fields map[string]Field[T]
	order  []string
	cfg    Config
	log    *slog.Logger
}

// NewSchema builds a schema from fields. It panics if two fields share a
// name or a name is empty, as both are programming errors.
//
// Example:
//
//	type IsAnimalRequest struct {
//		Img        binder.File[*pixbuf.Buffer]
//		AnimalDesc AnimalDesc
//		Tags       []string
//		Note       *string
//	}
//
//	var schema = binder.NewSchema(
//		binder.Required("img", binder.FileOf(binder.RGB()), func(r *IsAnimalRequest) *binder.File[*pixbuf.Buffer] { return &r.Img }),
//		binder.Required("animal_desc", binder.JSON[AnimalDesc](), func(r *IsAnimalRequest) *AnimalDesc { return &r.AnimalDesc }),
//		binder.Repeated("tag", binder.String(), func(r *IsAnimalRequest) *[]string { return &r.Tags }),
//		binder.Optional("note", binder.String(), func(r *IsAnimalRequest) **string { return &r.Note }),
//	)
func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{
		fields: make(map[string]Field[T], len(fields)),
		order:  make([]string, 0, len(fields)),
		cfg:    DefaultConfig(),
		log:    slog.New(slog.DiscardHandler),
	}
	for _, f := range fields {
		if f.name == "" {
			panic("binder: field with empty name")
		}
		if _, dup := s.fields[f.name]; dup {
			panic(fmt.Sprintf("binder: duplicate field %q", f.name))
		}
		s.fields[f.name] = f
		s.order = append(s.order, f.name)
	}
	return s
}

// WithConfig returns a copy of the schema using the given limits.
func (s *Schema[T]) WithConfig(cfg Config) *Schema[T] {
	c := *s
	c.cfg = cfg
	return &c
}

// WithLogger returns a copy of the schema that logs skipped parts and
// failures at debug level. A nil logger disables logging.
func (s *Schema[T]) WithLogger(log *slog.Logger) *Schema[T] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := *s
	c.log = log.With(logger.Component("binder"))
	return &c
}

// Fields returns the registered part names in registration order.
func (s *Schema[T]) Fields() []string {
	return append([]string(nil), s.order...)
}

// Decode consumes every part of src and assembles a record.
//
// Parts are processed one at a time; each field decoder finishes before the
// next part is requested. Only the first error is reported. A cancelled ctx
// abandons the body immediately.
func (s *Schema[T]) Decode(ctx context.Context, src Source) (T, error) {
	var (
		rec      T
		zero     T
		firstErr error
		count    int
		seen     = make(map[string]bool, len(s.order))
	)
	for _, name := range s.order {
		s.fields[name].init(&rec)
	}

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		p, err := src.NextPart(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			if firstErr == nil {
				firstErr = transportError(err)
			}
			break
		}
		count++
		p.limit(s.cfg.MaxPartSize)

		name, err := partName(p)
		if err != nil {
			s.drain(ctx, p, "")
			return zero, err
		}

		if firstErr != nil {
			s.drain(ctx, p, name)
			continue
		}

		if s.cfg.MaxParts > 0 && count > s.cfg.MaxParts {
			firstErr = fieldError(name, fmt.Errorf("%w: limit is %d", ErrTooManyParts, s.cfg.MaxParts))
			s.drain(ctx, p, name)
			continue
		}

		f, ok := s.fields[name]
		if !ok {
			firstErr = fieldError(name, ErrNoSuchField)
			s.log.DebugContext(ctx, "unknown part", logger.Field(name))
			s.drain(ctx, p, name)
			continue
		}

		if err := f.decode(ctx, p, &rec); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			firstErr = fieldError(name, err)
			s.log.DebugContext(ctx, "field decode failed",
				logger.Field(name),
				logger.Kind(f.kind.String()),
				logger.Error(err),
			)
		} else {
			seen[name] = true
		}

		if err := s.drain(ctx, p, name); err != nil && firstErr == nil {
			firstErr = fieldError(name, err)
		}
	}

	if firstErr != nil {
		return zero, firstErr
	}

	for _, name := range s.order {
		if s.fields[name].kind == kindRequired && !seen[name] {
			return zero, fieldError(name, ErrMissingField)
		}
	}

	return rec, nil
}

// drain skips the rest of a part. Parts already read to the end cost nothing.
func (s *Schema[T]) drain(ctx context.Context, p *Part, name string) error {
	n, err := Drain(p)
	if n > 0 || err != nil {
		s.log.DebugContext(ctx, "part drained",
			logger.Field(name),
			logger.Bytes(n),
			logger.Error(err),
		)
	}
	return err
}

func partName(p *Part) (string, error) {
	d, err := p.Disposition()
	if err != nil {
		return "", err
	}
	name, ok := d.Name()
	if !ok {
		return "", ErrMissingName
	}
	return name, nil
}

func transportError(err error) error {
	if errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
