package binder

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// MsgPack decodes the part body as a MessagePack encoded value.
func MsgPack[V any]() Decoder[V] {
	return DecoderFunc[V](func(ctx context.Context, p *Part) (V, error) {
		var v V
		body, err := readAll(ctx, p)
		if err != nil {
			return v, err
		}
		if err := msgpack.Unmarshal(body, &v); err != nil {
			return v, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return v, nil
	})
}

// YAML decodes the part body as a single YAML document.
// Unknown keys are rejected.
func YAML[V any]() Decoder[V] {
	return DecoderFunc[V](func(ctx context.Context, p *Part) (V, error) {
		var v V
		body, err := readAll(ctx, p)
		if err != nil {
			return v, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(body))
		dec.KnownFields(true)
		if err := dec.Decode(&v); err != nil {
			return v, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		return v, nil
	})
}
