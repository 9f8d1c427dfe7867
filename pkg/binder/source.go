package binder

import (
	"context"
	"io"
	"mime/multipart"
)

// Source yields the parts of one multipart body in arrival order.
// NextPart returns io.EOF once the body is exhausted; any other error is
// treated as a transport failure.
type Source interface {
	NextPart(ctx context.Context) (*Part, error)
}

// NewSource adapts a standard library multipart reader.
func NewSource(r *multipart.Reader) Source {
	return &multipartSource{r: r}
}

type multipartSource struct {
	r *multipart.Reader
}

func (s *multipartSource) NextPart(ctx context.Context) (*Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mp, err := s.r.NextPart()
	if err != nil {
		return nil, err
	}
	return NewPart(mp.Header, mp), nil
}

// SliceSource serves an in-memory list of parts.
func SliceSource(parts ...*Part) Source {
	return &sliceSource{parts: parts}
}

type sliceSource struct {
	parts []*Part
	next  int
}

func (s *sliceSource) NextPart(ctx context.Context) (*Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.parts) {
		return nil, io.EOF
	}
	p := s.parts[s.next]
	s.next++
	return p, nil
}
