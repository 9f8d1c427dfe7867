package binder

import (
	"context"
	"errors"
	"net/http"
)

// StatusCode maps a decode error to an HTTP status code.
//
// Errors caused by the request content are 400 Bad Request. An exceeded body
// limit is 413 wherever it surfaced. Other transport errors keep the
// transport's own classification: an error exposing StatusCode() int reports
// that code, anything else is 400.
// A nil error maps to 200.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}

	// The body limit can trip inside a field decoder as well as in NextPart.
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	if errors.Is(err, ErrTransport) {
		var coded interface{ StatusCode() int }
		if errors.As(err, &coded) {
			if code := coded.StatusCode(); code >= 400 && code <= 599 {
				return code
			}
		}
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, ErrPartTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidTarget):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
