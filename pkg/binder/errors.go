package binder

import (
	"errors"
	"fmt"
)

// Decoding errors. Field decoders and the schema wrap these with %w so
// callers can classify failures with errors.Is.
var (
	ErrSerialization    = errors.New("failed to deserialize")
	ErrImageDecode      = errors.New("failed to decode image")
	ErrNoFilename       = errors.New("no filename for file")
	ErrFilenameEncoding = errors.New("filename must be valid UTF-8")
	ErrStringDecode     = errors.New("failed to decode string")
	ErrNoSuchField      = errors.New("no such field in request")
	ErrMissingField     = errors.New("missing required field")
	ErrTransport        = errors.New("transport error")
	ErrUnknown          = errors.New("unknown error")

	// Protocol violations: the decode stops right after the offending part is drained.
	ErrMissingName          = errors.New("part has no name in content-disposition")
	ErrMalformedDisposition = errors.New("malformed content-disposition")

	// Limits
	ErrPartTooLarge = errors.New("part exceeds maximum size")
	ErrTooManyParts = errors.New("too many parts")

	// Form-or-multipart dispatch
	ErrInvalidForm          = errors.New("invalid form data")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidTarget        = errors.New("invalid bind target")
)

// FieldError reports which field (part name) a decode failed on.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field == field {
		return err
	}
	return &FieldError{Field: field, Err: err}
}

// FieldName returns the field recorded in err, or "" if err carries none.
func FieldName(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
