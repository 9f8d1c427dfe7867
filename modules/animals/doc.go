// Package animals is a small HTTP service built on pkg/binder.
//
// POST /is_animal takes a multipart body with an "img" file part decoded to
// RGB pixels and an "animal_desc" JSON part such as
// {"name": "Rex", "kind": "dog"}. Dogs and cats are accepted: the image is
// re-encoded as PNG and stored under animals/<filename>, and the response is
// {"animal": true}. Other kinds answer {"animal": false}.
//
// POST /is_animal/form takes only animal_desc, URL-encoded or multipart, and
// answers "out is true" or "out is false".
//
// Decode failures are answered with the error text and binder.StatusCode.
// With WithRateLimit both endpoints share one token bucket per client key and
// answer 429 once it is empty.
package animals
