package binder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSON decodes the part body as a single JSON value of type V.
// It also serves scalar fields: JSON[int64](), JSON[bool]() and so on.
//
// Example:
//
//	type AnimalDesc struct {
//		Name string `json:"name"`
//		Kind string `json:"kind"`
//	}
//
//	binder.Required("animal_desc", binder.JSON[AnimalDesc](), func(r *Request) *AnimalDesc {
//		return &r.AnimalDesc
//	})
func JSON[V any]() Decoder[V] {
	return DecoderFunc[V](func(ctx context.Context, p *Part) (V, error) {
		var v V
		body, err := readAll(ctx, p)
		if err != nil {
			return v, err
		}
		return v, unmarshalJSON(body, &v)
	})
}

func unmarshalJSON(body []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", ErrSerialization)
		}
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	// Ensure entire body was consumed
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrSerialization)
	}
	return nil
}
