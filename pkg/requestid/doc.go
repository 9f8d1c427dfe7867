// Package requestid attaches a correlation id to every HTTP request and logs
// one access record per request.
//
// Middleware reuses a client supplied X-Request-ID header when it is at most
// 128 characters of [a-zA-Z0-9_-]; otherwise it generates a UUIDv7. The id is
// echoed in the response header and stored in the request context, where
// FromContext retrieves it. LoggerExtractor plugs the id into loggers built by
// pkg/logger, and AccessLog records method, path, status, size and duration.
//
// # Usage
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Use(requestid.AccessLog(log))
package requestid
