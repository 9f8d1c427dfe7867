package binder

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Decoder turns one part into a value of type V.
//
// Implementations hold no per-call state, so a single Decoder may serve any
// number of concurrent decodes. Decode may stop reading before the part is
// exhausted; the schema drains what is left.
type Decoder[V any] interface {
	Decode(ctx context.Context, p *Part) (V, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[V any] func(ctx context.Context, p *Part) (V, error)

func (f DecoderFunc[V]) Decode(ctx context.Context, p *Part) (V, error) {
	return f(ctx, p)
}

// Boxed decodes with inner and returns a pointer to the result.
func Boxed[V any](inner Decoder[V]) Decoder[*V] {
	return DecoderFunc[*V](func(ctx context.Context, p *Part) (*V, error) {
		v, err := inner.Decode(ctx, p)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

// Lazy defers building the decoder until the first part is decoded.
// It allows self-referential record shapes where a decoder refers to a
// variable that is not yet initialized.
func Lazy[V any](build func() Decoder[V]) Decoder[V] {
	get := sync.OnceValue(build)
	return DecoderFunc[V](func(ctx context.Context, p *Part) (V, error) {
		return get().Decode(ctx, p)
	})
}

const readChunkSize = 32 << 10

// readAll reads r to the end, checking ctx between chunks.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
