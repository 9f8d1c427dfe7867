// Package binder decodes multipart/form-data request bodies into typed Go
// records, one part at a time, without buffering the whole body.
//
// A Schema lists the part names a record accepts and how each part is
// decoded. Every field has a Decoder that turns one part into one value and
// a kind that decides how the value lands in the record:
//
//   - Required: exactly one value; decoding fails with ErrMissingField when absent
//   - Optional: a pointer that stays nil when absent; the last part wins
//   - Repeated: a slice that collects every matching part in arrival order
//
// # Basic Usage
//
//	type UploadRequest struct {
//	    Title  string
//	    Cover  binder.File[*pixbuf.Buffer]
//	    Meta   Meta
//	    Tags   []string
//	    Author *uuid.UUID
//	}
//
//	var uploadSchema = binder.NewSchema(
//	    binder.Required("title", binder.String(), func(r *UploadRequest) *string { return &r.Title }),
//	    binder.Required("cover", binder.FileOf(binder.RGB()), func(r *UploadRequest) *binder.File[*pixbuf.Buffer] { return &r.Cover }),
//	    binder.Required("meta", binder.JSON[Meta](), func(r *UploadRequest) *Meta { return &r.Meta }),
//	    binder.Repeated("tag", binder.String(), func(r *UploadRequest) *[]string { return &r.Tags }),
//	    binder.Optional("author", binder.UUID(), func(r *UploadRequest) **uuid.UUID { return &r.Author }),
//	)
//
//	func upload(w http.ResponseWriter, r *http.Request) {
//	    req, err := binder.Bind(r, uploadSchema)
//	    if err != nil {
//	        http.Error(w, err.Error(), binder.StatusCode(err))
//	        return
//	    }
//	    // ...
//	}
//
// # Decoders
//
//   - Bytes, String: raw body, text with optional charset transcoding
//   - JSON, MsgPack, YAML: structured payloads
//   - UUID, Time, Date, DateTime: JSON-style scalars
//   - Image, RGB, RGBA, Gray, GrayAlpha, BGR, BGRA: images converted to pixbuf layouts
//   - FileOf: wraps another decoder and requires a filename
//   - Boxed, Lazy: indirection for recursive shapes
//
// Implement Decoder (or use DecoderFunc) for anything else.
//
// # Strict schema and draining
//
// A part whose name is not registered fails the decode with ErrNoSuchField.
// Only the first error is returned. After it, the remaining parts are still
// read to the end and discarded so the connection stays in a consistent
// state. A part without a name, or with a malformed Content-Disposition,
// fails the decode right after it has been drained.
//
// # Errors
//
// All errors wrap one of the sentinel values in this package and can be
// checked with errors.Is. Errors tied to a part carry a *FieldError; use
// FieldName to get the part name. StatusCode maps an error to an HTTP status.
package binder
