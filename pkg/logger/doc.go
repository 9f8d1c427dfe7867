// Package logger builds *slog.Logger values from functional options and
// provides attribute constructors that keep key names consistent.
//
// New picks slog.NewJSONHandler or slog.NewTextHandler based on the Format,
// applies static attributes, and wraps the handler with a context handler
// when ContextExtractor callbacks are registered, so request-scoped values
// (a request id, for instance) are added to every record at log time.
//
// # Usage
//
//	level, err := logger.ParseLevel(cfg.LogLevel)
//	if err != nil {
//	    return err
//	}
//	log := logger.New(
//	    logger.WithFormat(logger.Format(cfg.LogFormat)),
//	    logger.WithLevel(level),
//	    logger.WithAttr(logger.Component("animals")),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.DebugContext(ctx, "part drained", logger.Field("img"), logger.Bytes(n))
//
// # Error Handling
//
// Error, Errors, Field and RequestID return an empty slog.Attr for empty
// input, which slog handlers skip, so they can be passed without a nil check:
//
//	log.Info("upload stored", logger.Error(err))
package logger
