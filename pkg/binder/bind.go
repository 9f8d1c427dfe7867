package binder

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/elnormous/contenttype"
)

// Bind decodes the request body into T using s.
//
// A body declared as application/x-www-form-urlencoded (parameters ignored)
// goes through Form; any other content type is treated as multipart and
// goes through Multipart, which rejects bodies that are not multipart/*. Both paths report errors from this package, so
// the caller does not need to know which one ran.
//
// Example:
//
//	func (h *Handler) IsAnimal(w http.ResponseWriter, r *http.Request) {
//		req, err := binder.Bind(r, isAnimalSchema)
//		if err != nil {
//			http.Error(w, err.Error(), binder.StatusCode(err))
//			return
//		}
//		// use req...
//	}
func Bind[T any](r *http.Request, s *Schema[T]) (T, error) {
	if isURLEncoded(r) {
		return Form(r, s)
	}
	return Multipart(r, s)
}

// Multipart decodes a multipart/form-data body into T. A request whose
// Content-Type is absent or not multipart/* fails with
// ErrUnsupportedMediaType; a multipart body without a usable boundary fails
// with ErrTransport.
func Multipart[T any](r *http.Request, s *Schema[T]) (T, error) {
	var zero T

	mt, err := contenttype.GetMediaType(r)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrUnsupportedMediaType, err)
	}
	if !strings.EqualFold(mt.Type, "multipart") {
		return zero, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, r.Header.Get("Content-Type"))
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return s.Decode(r.Context(), NewSource(mr))
}

// Binder adapts the schema to the func(r, v) error binder shape used by
// request handler frameworks. v must be a *T.
func (s *Schema[T]) Binder() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		dst, ok := v.(*T)
		if !ok || dst == nil {
			return fmt.Errorf("%w: expected %T, got %T", ErrInvalidTarget, dst, v)
		}

		rec, err := Bind(r, s)
		if err != nil {
			return err
		}
		*dst = rec
		return nil
	}
}

func isURLEncoded(r *http.Request) bool {
	if r.Header.Get("Content-Type") == "" {
		return false
	}
	mt, err := contenttype.GetMediaType(r)
	if err != nil {
		return false
	}
	return strings.EqualFold(mt.Type, "application") &&
		strings.EqualFold(mt.Subtype, "x-www-form-urlencoded")
}
